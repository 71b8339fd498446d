package client

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	v1alpha1 "github.com/KirkDiggler/kingdom-api/internal/handlers/kingdom/v1alpha1"
)

var recruitCmd = &cobra.Command{
	Use:   "recruit [kingdom-id] [unit-type] [quantity]",
	Short: "Recruit soldiers, archers or cavalry",
	Args:  cobra.ExactArgs(3),
	RunE:  recruit,
}

func recruit(cmd *cobra.Command, args []string) error {
	quantity, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("quantity must be a number: %w", err)
	}

	ctx, cancel := withTimeout()
	defer cancel()

	var resp v1alpha1.RecruitResponse
	err = newAPIClient().do(ctx, http.MethodPost, kingdomPath(args[0], "army", "recruit"), &v1alpha1.RecruitRequest{
		UnitType: args[1],
		Quantity: quantity,
	}, &resp)
	if err != nil {
		return fmt.Errorf("failed to recruit: %w", err)
	}

	successColor.Printf("Recruited %d %s\n", quantity, args[1])
	fmt.Printf("Paid: %s\n", formatResources(resp.Cost))
	fmt.Printf("Army size: %d\n", resp.Kingdom.Army.Size())
	return nil
}
