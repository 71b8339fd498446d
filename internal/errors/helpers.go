package errors

import (
	"errors"
	"strings"
)

// As is errors.As specialised to *Error
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is is errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode returns the code of err, CodeOK for nil and CodeInternal for
// errors that are not *Error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetMeta returns the metadata of err, if any
func GetMeta(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Meta
	}
	return nil
}

// GetReason returns the reason tag of err, or ""
func GetReason(err error) string {
	reason, _ := GetMeta(err)[MetaReason].(string)
	return reason
}

// GetMessage returns the outermost user facing message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Messages joins the message of every layer of err, outermost first,
// without the codes: "failed to start upgrade: insufficient resources"
func Messages(err error) string {
	parts := []string{}
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			parts = append(parts, err.Error())
			break
		}
		parts = append(parts, e.Message)
		err = e.Cause
	}
	return strings.Join(parts, ": ")
}

// IsNotFound checks for CodeNotFound
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks for CodeInvalidArgument
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsAlreadyExists checks for CodeAlreadyExists
func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

// IsResourceExhausted checks for CodeResourceExhausted
func IsResourceExhausted(err error) bool {
	return GetCode(err) == CodeResourceExhausted
}

// IsFailedPrecondition checks for CodeFailedPrecondition
func IsFailedPrecondition(err error) bool {
	return GetCode(err) == CodeFailedPrecondition
}

// IsOutOfRange checks for CodeOutOfRange
func IsOutOfRange(err error) bool {
	return GetCode(err) == CodeOutOfRange
}

// IsInternal checks for CodeInternal
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsUnavailable checks for CodeUnavailable
func IsUnavailable(err error) bool {
	return GetCode(err) == CodeUnavailable
}
