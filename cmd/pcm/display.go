package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/dlanger/pcm/internal/paperless"
)

// Output formats for listing commands.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// renderCorrespondents writes a correspondent listing in the requested
// format.
func renderCorrespondents(w io.Writer, corrs []paperless.Correspondent, format string) error {
	switch format {
	case formatJSON:
		return encodeJSON(w, corrs)
	case formatYAML:
		return encodeYAML(w, corrs)
	case formatTable, "":
		writeCorrespondentTable(w, corrs)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json, or yaml)", format)
	}
}

func writeCorrespondentTable(w io.Writer, corrs []paperless.Correspondent) {
	fmt.Fprintf(w, "%-6s %-40s %s\n", "ID", "NAME", "DOCUMENTS")
	for _, c := range corrs {
		fmt.Fprintf(w, "%-6d %-40s %d\n", c.ID, truncateName(c.Name, 40), c.DocumentCount)
	}
	fmt.Fprintf(w, "\n%d correspondent(s)\n", len(corrs))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// encodeYAML renders v through its JSON form so custom marshalers (the
// records' snake_case keys and Extra fields) shape the YAML too.
func encodeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	return yaml.NewEncoder(w).Encode(generic)
}

// truncateName shortens a name for fixed-width table columns.
func truncateName(name string, maxLen int) string {
	if len(name) <= maxLen {
		return name
	}
	return name[:maxLen-3] + "..."
}

// writeGroup prints one candidate group as an indexed member list. The
// 1-based index is what merge-threshold's "t N" target picker refers to.
func writeGroup(w io.Writer, ordinal int, group []paperless.Correspondent) {
	fmt.Fprintf(w, "%s\n", cyan(fmt.Sprintf("Group %d (%d members):", ordinal, len(group))))
	for i, c := range group {
		fmt.Fprintf(w, "  %d. [%d] %s (%d documents)\n", i+1, c.ID, c.Name, c.DocumentCount)
	}
}

// confirm asks a yes/no question on stdin, defaulting to no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
