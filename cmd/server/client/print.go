package client

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/KirkDiggler/kingdom-api/internal/engine"
	"github.com/KirkDiggler/kingdom-api/internal/entities"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgYellow)
)

// formatResources renders "gold 1,350, wood 680" in a stable order
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

func formatTicks(ticks int) string {
	return (time.Duration(ticks) * time.Second).String()
}

func printKingdom(k *entities.Kingdom, production entities.Resources) {
	titleColor.Printf("\n%s (%s)\n", k.KingdomName, k.Faction)
	fmt.Printf("ID: %s  Owner: %s  Power: %s  Ticks: %s\n",
		k.ID, k.Username, humanize.Comma(int64(k.Power)), humanize.Comma(int64(k.Ticks)))
	if k.CreatedAt > 0 {
		fmt.Printf("Founded %s\n", humanize.Time(time.Unix(k.CreatedAt, 0)))
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Stock", "Per Tick"}),
	)
	for _, kind := range entities.AllResourceKinds() {
		_ = table.Append([]string{
			string(kind),
			humanize.Comma(int64(k.Resources[kind])),
			"+" + strconv.Itoa(production[kind]),
		})
	}
	_ = table.Render()

	table = tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Building", "ID", "Level", "Status"}),
	)
	for _, b := range k.Buildings {
		status := "idle"
		if b.Constructing {
			status = "constructing"
		}
		_ = table.Append([]string{string(b.Type), b.ID, strconv.Itoa(b.Level), status})
	}
	_ = table.Render()

	if len(k.Queue) > 0 {
		printQueue(k.Queue)
	}

	if len(k.Army) > 0 {
		fmt.Printf("Army: ")
		parts := []string{}
		for _, u := range []entities.UnitType{entities.UnitSoldiers, entities.UnitArchers, entities.UnitCavalry} {
			if n := k.Army[u]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s %s", humanize.Comma(int64(n)), u))
			}
		}
		fmt.Println(strings.Join(parts, ", "))
	}
}

func printQueue(queue []*entities.QueueEntry) {
	infoColor.Println("Construction queue")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Entry", "Building", "Target Level", "Remaining"}),
	)
	for _, q := range queue {
		_ = table.Append([]string{
			q.ID,
			fmt.Sprintf("%s (%s)", q.BuildingType, q.BuildingID),
			strconv.Itoa(q.TargetLevel),
			formatTicks(q.RemainingTime),
		})
	}
	_ = table.Render()
}

func printQuote(q *engine.Quote) {
	titleColor.Printf("\n%s %s: level %d -> %d\n", q.BuildingType, q.BuildingID, q.CurrentLevel, q.TargetLevel)
	switch {
	case q.MaxLevelReached:
		infoColor.Printf("Already at max level %d\n", q.MaxLevel)
		return
	case q.Constructing:
		infoColor.Println("Upgrade already in progress")
	}
	fmt.Printf("Cost: %s\n", formatResources(q.Cost))
	fmt.Printf("Build time: %s\n", formatTicks(q.BuildTime))
	if q.Affordable {
		successColor.Println("Affordable")
	} else {
		color.Red("Missing: %s", formatResources(q.Missing))
	}
}
