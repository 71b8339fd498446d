package client

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	v1alpha1 "github.com/KirkDiggler/kingdom-api/internal/handlers/kingdom/v1alpha1"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [kingdom-id] [building-id]",
	Short: "Show the cost and build time of a building's next level",
	Args:  cobra.ExactArgs(2),
	RunE:  quote,
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [kingdom-id] [building-id]",
	Short: "Pay for and queue a building upgrade",
	Args:  cobra.ExactArgs(2),
	RunE:  upgrade,
}

func quote(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout()
	defer cancel()

	var resp v1alpha1.QuoteResponse
	if err := newAPIClient().do(ctx, http.MethodGet, kingdomPath(args[0], "buildings", args[1], "quote"), nil, &resp); err != nil {
		return fmt.Errorf("failed to quote upgrade: %w", err)
	}

	printQuote(resp.Quote)
	return nil
}

func upgrade(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout()
	defer cancel()

	var resp v1alpha1.UpgradeResponse
	if err := newAPIClient().do(ctx, http.MethodPost, kingdomPath(args[0], "buildings", args[1], "upgrade"), nil, &resp); err != nil {
		return fmt.Errorf("failed to start upgrade: %w", err)
	}

	successColor.Printf("Upgrade to level %d started, done in %s\n",
		resp.Entry.TargetLevel, formatTicks(resp.Entry.RemainingTime))
	fmt.Printf("Paid: %s\n", formatResources(resp.Cost))
	fmt.Printf("Left: %s\n", formatResources(resp.Kingdom.Resources))
	printQueue(resp.Kingdom.Queue)
	return nil
}
