// Package errors provides the structured error type used across kingdom-api.
//
// Every layer returns *Error values carrying a Code, a human readable
// Message, an optional Cause and free-form Meta. Codes map onto HTTP status
// codes at the handler boundary, so the engine and orchestrators never deal
// with transport concerns.
//
// # Creating errors
//
//	err := errors.NotFoundf("kingdom %s not found", id)
//	err := errors.ResourceExhausted("insufficient resources").
//	    WithReason("insufficient_resources").
//	    WithMeta("missing", missing)
//
// # Wrapping
//
// Wrap keeps the code of an existing *Error and defaults to CodeInternal
// for foreign errors:
//
//	if err := repo.Update(ctx, input); err != nil {
//	    return nil, errors.Wrap(err, "failed to save kingdom")
//	}
//
// # Checking
//
//	if errors.IsNotFound(err) { ... }
//	if errors.GetReason(err) == "already_constructing" { ... }
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("username", input.Username, vb)
//	errors.ValidateRange("quantity", input.Quantity, 1, 10000, vb)
//	if err := vb.Build(); err != nil {
//	    return nil, err
//	}
//
// # Layer guidelines
//
// Repositories return NotFound/AlreadyExists with the offending IDs in Meta
// and wrap storage failures. The engine returns domain failures tagged with
// a reason. Orchestrators validate input and wrap everything else with
// business context. Handlers translate codes with Code.HTTPStatus.
package errors
