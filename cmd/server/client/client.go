// Package client provides commands that drive a running kingdom server
// over its HTTP API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/kingdom-api/internal/errors"
	v1alpha1 "github.com/KirkDiggler/kingdom-api/internal/handlers/kingdom/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for the kingdom API",
	Long:  `Client commands let you play against a running server by making real HTTP requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "kingdom server base URL")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(registerCmd)
	ClientCmd.AddCommand(statusCmd)
	ClientCmd.AddCommand(quoteCmd)
	ClientCmd.AddCommand(upgradeCmd)
	ClientCmd.AddCommand(recruitCmd)
	ClientCmd.AddCommand(leaderboardCmd)
}

// apiClient is a minimal JSON client for the v1alpha1 routes
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(serverAddr, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends body (if any) as JSON and decodes a 2xx response into out. Error
// responses are turned back into *errors.Error with the server's code.
func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to reach server")
	}
	defer func() {
		_ = resp.Body.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp v1alpha1.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == nil {
			return errors.Newf(errors.CodeInternal, "server returned %s", resp.Status)
		}
		e := errors.New(errors.Code(errResp.Error.Code), errResp.Error.Message)
		for k, v := range errResp.Error.Meta {
			e = e.WithMeta(k, v)
		}
		return e
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func kingdomPath(id string, parts ...string) string {
	return fmt.Sprintf("/v1alpha1/kingdoms/%s", strings.Join(append([]string{id}, parts...), "/"))
}
