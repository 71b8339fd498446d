package client

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	v1alpha1 "github.com/KirkDiggler/kingdom-api/internal/handlers/kingdom/v1alpha1"
)

var registerCmd = &cobra.Command{
	Use:   "register [username] [kingdom-name] [faction]",
	Short: "Found a new kingdom",
	Long: `Register a kingdom. Factions: norman, viking, saxon, celtic, frankish.

  register william Normandy norman`,
	Args: cobra.ExactArgs(3),
	RunE: register,
}

func register(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout()
	defer cancel()

	var resp v1alpha1.KingdomResponse
	err := newAPIClient().do(ctx, http.MethodPost, "/v1alpha1/kingdoms", &v1alpha1.RegisterRequest{
		Username:    args[0],
		KingdomName: args[1],
		Faction:     args[2],
	}, &resp)
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}

	successColor.Printf("Kingdom founded: %s\n", resp.Kingdom.ID)
	printKingdom(resp.Kingdom, nil)
	return nil
}
