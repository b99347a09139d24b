package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/paperless"
)

// diagnoseDocPreview caps how many documents the table view lists.
const diagnoseDocPreview = 10

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose ID",
	Short: "Inspect one correspondent in detail",
	Long: `Show a correspondent's record alongside its actual documents. The stored
document_count can drift from the number of documents the API really
returns; a mismatch is flagged because it usually means a merge or delete
was interrupted.

Examples:
  pcm diagnose 42
  pcm diagnose 42 -f json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		ids, err := parseIDs(args)
		if err != nil {
			fail("%v", err)
		}
		id := ids[0]

		ctx := context.Background()
		client := newClient()

		c, err := client.Correspondent(ctx, id)
		if err != nil {
			if paperless.IsNotFound(err) {
				fail("correspondent %d does not exist", id)
			}
			fail("%v", err)
		}
		docs, err := client.CorrespondentDocuments(ctx, id)
		if err != nil {
			fail("fetching documents of %d: %v", id, err)
		}

		switch format {
		case formatJSON:
			err = encodeJSON(os.Stdout, diagnosis(c, docs))
		case formatYAML:
			err = encodeYAML(os.Stdout, diagnosis(c, docs))
		case formatTable, "":
			writeDiagnosis(os.Stdout, c, docs)
		default:
			err = fmt.Errorf("unknown format %q (want table, json, or yaml)", format)
		}
		if err != nil {
			fail("%v", err)
		}
	},
}

func init() {
	diagnoseCmd.Flags().StringP("format", "f", formatTable, "Output format: table, json, yaml")
	rootCmd.AddCommand(diagnoseCmd)
}

// diagnosis bundles the record and its real documents for structured output.
func diagnosis(c *paperless.Correspondent, docs []paperless.Document) map[string]any {
	return map[string]any{
		"correspondent":         c,
		"stored_document_count": c.DocumentCount,
		"actual_document_count": len(docs),
		"count_mismatch":        c.DocumentCount != len(docs),
		"documents":             docs,
	}
}

func writeDiagnosis(w io.Writer, c *paperless.Correspondent, docs []paperless.Document) {
	fmt.Fprintf(w, "%s\n", cyan(fmt.Sprintf("[%d] %s", c.ID, c.Name)))
	fmt.Fprintf(w, "  Slug:                %s\n", c.Slug)
	if c.LastCorrespondence != "" {
		fmt.Fprintf(w, "  Last correspondence: %s\n", c.LastCorrespondence)
	}
	fmt.Fprintf(w, "  Stored doc count:    %d\n", c.DocumentCount)
	fmt.Fprintf(w, "  Actual doc count:    %d\n", len(docs))
	if c.DocumentCount != len(docs) {
		fmt.Fprintf(w, "  %s stored and actual counts differ; the record may be stale\n", yellow("⚠"))
	} else {
		fmt.Fprintf(w, "  %s counts match\n", green("✓"))
	}

	if len(docs) == 0 {
		return
	}
	shown := docs
	if len(shown) > diagnoseDocPreview {
		shown = shown[:diagnoseDocPreview]
	}
	fmt.Fprintf(w, "\n  First %d document(s):\n", len(shown))
	for _, d := range shown {
		fmt.Fprintf(w, "    [%d] %s (created %s)\n", d.ID, truncateName(d.Title, 50), d.Created)
	}
	if len(docs) > len(shown) {
		fmt.Fprintf(w, "    ... and %d more\n", len(docs)-len(shown))
	}
}
