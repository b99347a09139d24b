package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete one correspondent",
	Long: `Delete a correspondent record. Its documents are not deleted; they simply
lose their correspondent. Asks for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")

		ids, err := parseIDs(args)
		if err != nil {
			fail("%v", err)
		}
		id := ids[0]

		ctx := context.Background()
		client := newClient()

		c, err := client.Correspondent(ctx, id)
		if err != nil {
			fail("%v", err)
		}
		if c.DocumentCount > 0 {
			fmt.Printf("%s [%d] %s still has %d document(s); they will lose their correspondent\n",
				yellow("⚠"), c.ID, c.Name, c.DocumentCount)
		}

		if !yes && !confirm(fmt.Sprintf("Delete [%d] %s?", c.ID, c.Name)) {
			fmt.Println("Aborted")
			return
		}

		if err := client.DeleteCorrespondent(ctx, id); err != nil {
			fail("%v", err)
		}
		fmt.Printf("%s Deleted [%d] %s\n", green("✓"), c.ID, c.Name)
	},
}

func init() {
	deleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
