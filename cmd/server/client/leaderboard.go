package client

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	v1alpha1 "github.com/KirkDiggler/kingdom-api/internal/handlers/kingdom/v1alpha1"
)

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank kingdoms by power",
	Args:  cobra.NoArgs,
	RunE:  leaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "Number of kingdoms to show")
}

func leaderboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout()
	defer cancel()

	var resp v1alpha1.LeaderboardResponse
	path := "/v1alpha1/leaderboard?limit=" + strconv.Itoa(leaderboardLimit)
	if err := newAPIClient().do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return fmt.Errorf("failed to get leaderboard: %w", err)
	}

	titleColor.Println("Leaderboard")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Kingdom", "Owner", "Faction", "Power"}),
	)
	for _, e := range resp.Entries {
		_ = table.Append([]string{
			humanize.Ordinal(e.Rank),
			e.KingdomName,
			e.Username,
			string(e.Faction),
			humanize.Comma(int64(e.Power)),
		})
	}
	_ = table.Render()
	return nil
}
