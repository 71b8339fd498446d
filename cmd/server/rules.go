package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/kingdom-api/internal/engine"
	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/idgen"
)

var (
	rulesFile     string
	rulesLevels   int
	rulesBuilding string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print building cost and build time tables",
	Long: `Print the balance tables the server would use: per-level cost and build
time for every building, and the faction production bonuses.`,
	Args: cobra.NoArgs,
	RunE: printRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesFile, "rules", "", "Balance rules YAML; embedded defaults when empty")
	rulesCmd.Flags().IntVar(&rulesLevels, "levels", 10, "Number of levels to show per building")
	rulesCmd.Flags().StringVar(&rulesBuilding, "building", "", "Only show this building type")
}

func printRules(cmd *cobra.Command, _ []string) error {
	gameRules, err := loadRules(rulesFile)
	if err != nil {
		return err
	}
	eng, err := engine.New(&engine.Config{
		Rules:       gameRules,
		IDGenerator: idgen.NewSequential("q"),
	})
	if err != nil {
		return err
	}

	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)

	for _, bt := range entities.AllBuildingTypes() {
		if rulesBuilding != "" && string(bt) != rulesBuilding {
			continue
		}
		spec, ok := gameRules.Building(bt)
		if !ok {
			continue
		}

		titleColor.Printf("\n%s (max level %d)\n", spec.Name, spec.MaxLevel)
		infoColor.Printf("Produces per level: %s\n", formatResources(spec.Production))

		table := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeader([]string{"Level", "Gold", "Wood", "Stone", "Build Time"}),
		)
		last := min(rulesLevels, spec.MaxLevel)
		for level := 1; level <= last; level++ {
			cost, err := eng.Cost(bt, level)
			if err != nil {
				return err
			}
			seconds, err := eng.BuildTime(bt, level)
			if err != nil {
				return err
			}
			_ = table.Append([]string{
				strconv.Itoa(level),
				humanize.Comma(int64(cost[entities.ResourceGold])),
				humanize.Comma(int64(cost[entities.ResourceWood])),
				humanize.Comma(int64(cost[entities.ResourceStone])),
				(time.Duration(seconds) * time.Second).String(),
			})
		}
		_ = table.Render()
	}

	if rulesBuilding != "" {
		return nil
	}

	titleColor.Println("\nFactions")
	factions := make([]string, 0, len(gameRules.Factions))
	for f := range gameRules.Factions {
		factions = append(factions, string(f))
	}
	sort.Strings(factions)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Faction", "Name", "Bonuses", "Starting Resources"}),
	)
	for _, name := range factions {
		f := entities.Faction(name)
		spec := gameRules.Factions[f]
		bonuses := make([]string, 0, len(spec.Bonuses))
		for _, k := range entities.AllResourceKinds() {
			if pct := spec.Bonuses[k]; pct > 0 {
				bonuses = append(bonuses, fmt.Sprintf("%s +%d%%", k, pct))
			}
		}
		_ = table.Append([]string{
			name,
			spec.Name,
			strings.Join(bonuses, ", "),
			formatResources(gameRules.StartingResources(f)),
		})
	}
	_ = table.Render()
	return nil
}

func formatResources(r entities.Resources) string {
	if len(r) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(r))
	for _, k := range r.Kinds() {
		parts = append(parts, fmt.Sprintf("%s %s", k, humanize.Comma(int64(r[k]))))
	}
	return strings.Join(parts, ", ")
}
