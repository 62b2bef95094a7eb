package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/adamavenir/recall/internal/history"
	"github.com/adamavenir/recall/internal/rank"
	"github.com/adamavenir/recall/internal/types"
	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command group.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and edit stored field history",
	}

	cmd.AddCommand(
		newHistoryListCmd(),
		newHistoryAddCmd(),
		newHistoryRmCmd(),
		newHistorySearchCmd(),
		newHistoryResetCmd(),
		newHistoryExportCmd(),
		newHistoryImportCmd(),
		newHistoryStatsCmd(),
		newHistoryWatchCmd(),
	)

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [key]",
		Short: "List field keys, or the values stored for one key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			matcher, err := compileMatch(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				values := filterMatches(ctx.Store.Get(args[0]), matcher)
				if ctx.JSONMode {
					return json.NewEncoder(out).Encode(types.HistoryEntry{Key: args[0], Values: values})
				}
				if len(values) == 0 {
					fmt.Fprintf(out, "No history for %s\n", args[0])
					return nil
				}
				for _, value := range values {
					fmt.Fprintln(out, value)
				}
				return nil
			}

			snapshot := ctx.Store.Snapshot()
			keys := filterMatches(ctx.Store.Keys(), matcher)
			entries := make([]types.HistoryEntry, 0, len(keys))
			for _, key := range keys {
				entries = append(entries, types.HistoryEntry{Key: key, Values: snapshot[key]})
			}
			if ctx.JSONMode {
				return json.NewEncoder(out).Encode(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No history")
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintf(out, "%s (%d)\n", entry.Key, len(entry.Values))
			}
			return nil
		},
	}

	cmd.Flags().String("match", "", "only show entries matching a glob")
	return cmd
}

func newHistoryAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <key> <value>",
		Short: "Store a value for a field key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			if args[1] == "" {
				return writeCommandError(cmd, fmt.Errorf("value cannot be empty"))
			}
			if err := ctx.Store.Add(args[0], args[1]); err != nil {
				return writeCommandError(cmd, err)
			}
			return writeHistoryEntry(cmd, ctx, args[0], "Added")
		},
	}
	return cmd
}

func newHistoryRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <key> <value>",
		Short: "Forget a value for a field key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			if err := ctx.Store.Remove(args[0], args[1]); err != nil {
				return writeCommandError(cmd, err)
			}
			return writeHistoryEntry(cmd, ctx, args[0], "Removed")
		},
	}
	return cmd
}

func writeHistoryEntry(cmd *cobra.Command, ctx *CommandContext, key, verb string) error {
	values := ctx.Store.Get(key)
	if ctx.JSONMode {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(types.HistoryEntry{Key: key, Values: values})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s. %s now has %d value(s)\n", verb, key, len(values))
	return nil
}

func newHistorySearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <key> <query>",
		Short: "Rank stored values for a key against a query",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			limit := ctx.Config.Limit
			if cmd.Flags().Changed("limit") {
				limit, _ = cmd.Flags().GetInt("limit")
			}
			adapter, err := rank.NewAdapter(rank.FuzzyEngine{}, rank.Options{
				Limit:     limit,
				Threshold: ctx.Config.Threshold,
			}, ctx.Logger)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			results := adapter.Search(ctx.Store.Get(args[0]), args[1])
			out := cmd.OutOrStdout()
			if ctx.JSONMode {
				payload := make([]types.SearchResult, 0, len(results))
				for _, r := range results {
					payload = append(payload, types.SearchResult{Value: r.Original, Score: r.Score})
				}
				return json.NewEncoder(out).Encode(payload)
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "No matches")
				return nil
			}
			for _, r := range results {
				fmt.Fprintln(out, r.Display)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", rank.DefaultLimit, "maximum number of results")
	return cmd
}

func newHistoryResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			force, _ := cmd.Flags().GetBool("force")
			if !force {
				count := ctx.Store.Snapshot().Count()
				prompt := fmt.Sprintf("Delete %s stored value(s)? This cannot be undone. [y/N]: ", humanize.Comma(int64(count)))
				confirmed, err := confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), prompt)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := ctx.Store.Reset(); err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]bool{"reset": true})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "skip confirmation")
	return cmd
}

func newHistoryExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored history as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			data, err := json.MarshalIndent(ctx.Store.Snapshot(), "", "  ")
			if err != nil {
				return writeCommandError(cmd, err)
			}
			data = append(data, '\n')

			output, _ := cmd.Flags().GetString("output")
			if output == "" || output == "-" {
				out := cmd.OutOrStdout()
				text := string(data)
				if colorEnabled(out) {
					text = highlightJSON(text)
				}
				_, err = io.WriteString(out, text)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return writeCommandError(cmd, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newHistoryImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge history from a JSON export (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			var data []byte
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeCommandError(cmd, err)
			}

			incoming, err := history.Decode(string(data))
			if err != nil {
				return writeCommandError(cmd, fmt.Errorf("parse %s: %w", args[0], err))
			}
			added, err := ctx.Store.Import(incoming)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]int{"added": added})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s new value(s)\n", humanize.Comma(int64(added)))
			return nil
		},
	}
	return cmd
}

type historyStats struct {
	Store     string `json:"store"`
	Path      string `json:"path,omitempty"`
	Keys      int    `json:"keys"`
	Values    int    `json:"values"`
	Bytes     int    `json:"bytes"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

func newHistoryStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			snapshot := ctx.Store.Snapshot()
			raw, _, err := ctx.KV.Get(ctx.Config.StorageKey)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			stats := historyStats{
				Store:  ctx.Config.Store,
				Path:   ctx.StorePath,
				Keys:   len(snapshot),
				Values: snapshot.Count(),
				Bytes:  len(raw),
			}
			updated, hasUpdated := ctx.LastModified()
			if hasUpdated {
				stats.UpdatedAt = updated.UnixMilli()
			}

			out := cmd.OutOrStdout()
			if ctx.JSONMode {
				return json.NewEncoder(out).Encode(stats)
			}
			fmt.Fprintf(out, "Store:   %s", stats.Store)
			if stats.Path != "" {
				fmt.Fprintf(out, " (%s)", stats.Path)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Keys:    %s\n", humanize.Comma(int64(stats.Keys)))
			fmt.Fprintf(out, "Values:  %s\n", humanize.Comma(int64(stats.Values)))
			fmt.Fprintf(out, "Size:    %s\n", humanize.Bytes(uint64(stats.Bytes)))
			if hasUpdated {
				fmt.Fprintf(out, "Updated: %s\n", humanize.Time(updated))
			}
			return nil
		},
	}
	return cmd
}

func compileMatch(cmd *cobra.Command) (glob.Glob, error) {
	pattern, _ := cmd.Flags().GetString("match")
	if pattern == "" {
		return nil, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid --match pattern %q: %w", pattern, err)
	}
	return g, nil
}

func filterMatches(values []string, matcher glob.Glob) []string {
	if matcher == nil {
		return values
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if matcher.Match(value) {
			out = append(out, value)
		}
	}
	return out
}
