package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/adamavenir/recall/internal/history"
	"github.com/adamavenir/recall/internal/types"
	"github.com/spf13/cobra"
)

type watchEvent struct {
	Added     types.History `json:"added"`
	Removed   types.History `json:"removed"`
	Timestamp int64         `json:"ts"`
}

func newHistoryWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream history changes made by other processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			if ctx.StorePath == "" {
				return writeCommandError(cmd, fmt.Errorf("the %s store cannot be watched", ctx.Config.Store))
			}
			w, err := history.NewWatcher(ctx.Store, ctx.StorePath)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer w.Close()

			notify, _ := cmd.Flags().GetBool("notify")
			out := cmd.OutOrStdout()
			if !ctx.JSONMode {
				fmt.Fprintf(out, "--- watching %s (Ctrl+C to stop) ---\n", ctx.StorePath)
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(stop)

			for {
				select {
				case <-stop:
					return nil
				case <-cmd.Context().Done():
					return nil
				case change, ok := <-w.Events():
					if !ok {
						return nil
					}
					if err := writeChange(out, ctx.JSONMode, change); err != nil {
						return err
					}
					if notify {
						if err := sendChangeNotification(change); err != nil {
							ctx.Logger.Warn("notification failed", "err", err)
						}
					}
				case err, ok := <-w.Errors():
					if !ok {
						return nil
					}
					ctx.Logger.Warn("watch error", "err", err)
				}
			}
		},
	}
	cmd.Flags().Bool("notify", false, "send a desktop notification for each change")
	return cmd
}

func writeChange(out io.Writer, jsonMode bool, change history.Change) error {
	if jsonMode {
		return json.NewEncoder(out).Encode(watchEvent{
			Added:     change.Added,
			Removed:   change.Removed,
			Timestamp: change.Timestamp.UnixMilli(),
		})
	}
	for _, line := range changeLines("+", change.Added) {
		fmt.Fprintln(out, line)
	}
	for _, line := range changeLines("-", change.Removed) {
		fmt.Fprintln(out, line)
	}
	return nil
}

func changeLines(marker string, h types.History) []string {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var lines []string
	for _, key := range keys {
		for _, value := range h[key] {
			lines = append(lines, fmt.Sprintf("%s %s: %s", marker, key, value))
		}
	}
	return lines
}
