package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all correspondents",
	Long: `List every correspondent in the instance with its document count.

Examples:
  pcm list
  pcm list -f json
  pcm list -f yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		client := newClient()
		corrs, err := client.Correspondents(context.Background())
		if err != nil {
			fail("%v", err)
		}
		if err := renderCorrespondents(os.Stdout, corrs, format); err != nil {
			fail("%v", err)
		}
	},
}

func init() {
	listCmd.Flags().StringP("format", "f", formatTable, "Output format: table, json, yaml")
	rootCmd.AddCommand(listCmd)
}
