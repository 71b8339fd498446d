// Package main is the entry point for the kingdom server and its CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/kingdom-api/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "kingdom-api",
	Short: "Kingdom builder game server",
	Long:  `kingdom-api runs the kingdom simulation: resource production, building upgrades and armies.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
