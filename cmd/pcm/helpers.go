package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dlanger/pcm/internal/dedupe"
	"github.com/dlanger/pcm/internal/journal"
	"github.com/dlanger/pcm/internal/paperless"
)

// fail prints an error and exits. Command Run functions use it for every
// unrecoverable condition.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newClient builds the API client from environment and flags. Flags win over
// environment values.
func newClient() *paperless.Client {
	cfg, err := paperless.ConfigFromEnv()
	if err != nil {
		fail("%v", err)
	}
	if flagURL != "" {
		cfg.BaseURL = strings.TrimRight(flagURL, "/")
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}

	client, err := paperless.NewClient(cfg)
	if err != nil {
		fail("%v", err)
	}
	return client
}

// newEngine builds the merge engine on top of client with environment
// configuration.
func newEngine(client *paperless.Client) (*dedupe.Engine, dedupe.Config) {
	cfg, err := dedupe.ConfigFromEnv()
	if err != nil {
		fail("%v", err)
	}
	engine, err := dedupe.NewEngine(client, cfg)
	if err != nil {
		fail("%v", err)
	}
	if flagVerbose {
		fmt.Printf("Engine %s\n", cfg)
	}
	return engine, cfg
}

// journalPath resolves the journal location: --journal flag, then
// PCM_JOURNAL_PATH, then the default under the home directory.
func journalPath() string {
	if flagJournal != "" {
		return flagJournal
	}
	if p := os.Getenv("PCM_JOURNAL_PATH"); p != "" {
		return p
	}
	return journal.DefaultPath()
}

// openJournal opens the merge journal, degrading to nil when unavailable.
// Merges proceed without an undo record rather than aborting.
func openJournal() *journal.Journal {
	j, err := journal.Open(journalPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: merge journal unavailable: %v\n", err)
		return nil
	}
	return j
}

// recordMerge journals one executed merge. Journal failures warn and
// continue; they never block the merge flow.
func recordMerge(ctx context.Context, j *journal.Journal, res *dedupe.MergeResult, names map[int]string) {
	if j == nil {
		return
	}
	entry := &journal.Entry{
		SourceID:    res.SourceID,
		SourceName:  names[res.SourceID],
		TargetID:    res.TargetID,
		TargetName:  names[res.TargetID],
		DocumentIDs: res.DocumentIDs,
		Succeeded:   res.Succeeded,
	}
	if err := j.Record(ctx, entry); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to journal merge %d -> %d: %v\n", res.SourceID, res.TargetID, err)
		return
	}
	if flagVerbose {
		fmt.Printf("Journaled merge as %s\n", entry.ID)
	}
}

// parseIDs converts command arguments into positive correspondent ids.
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid correspondent id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// correspondentsByID indexes a correspondent listing for membership checks.
func correspondentsByID(corrs []paperless.Correspondent) map[int]paperless.Correspondent {
	byID := make(map[int]paperless.Correspondent, len(corrs))
	for _, c := range corrs {
		byID[c.ID] = c
	}
	return byID
}

// nameIndex maps correspondent ids to names for journal entries and display.
func nameIndex(corrs []paperless.Correspondent) map[int]string {
	names := make(map[int]string, len(corrs))
	for _, c := range corrs {
		names[c.ID] = c.Name
	}
	return names
}
