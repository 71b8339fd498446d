package client

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	v1alpha1 "github.com/KirkDiggler/kingdom-api/internal/handlers/kingdom/v1alpha1"
)

var statusCmd = &cobra.Command{
	Use:   "status [kingdom-id]",
	Short: "Show resources, buildings and the construction queue",
	Args:  cobra.ExactArgs(1),
	RunE:  status,
}

func status(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout()
	defer cancel()

	var resp v1alpha1.KingdomResponse
	if err := newAPIClient().do(ctx, http.MethodGet, kingdomPath(args[0]), nil, &resp); err != nil {
		return fmt.Errorf("failed to get kingdom: %w", err)
	}

	printKingdom(resp.Kingdom, resp.Production)
	return nil
}
