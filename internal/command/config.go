package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adamavenir/recall/internal/core"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get or set configuration",
		Long:  "Get or set configuration. Keys: " + strings.Join(core.ConfigKeys(), ", ") + ".",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			config, paths, err := loadConfig(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				entries := config.Entries()
				if jsonMode {
					return json.NewEncoder(out).Encode(entries)
				}
				fmt.Fprintf(out, "Configuration (%s):\n", paths.ConfigFile)
				for _, entry := range entries {
					fmt.Fprintf(out, "  %s: %s\n", entry.Key, entry.Value)
				}
				return nil
			}

			key := normalizeConfigKey(args[0])
			if len(args) == 1 {
				value, err := config.Get(key)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				if jsonMode {
					return json.NewEncoder(out).Encode(map[string]string{key: value})
				}
				fmt.Fprintf(out, "%s: %s\n", key, value)
				return nil
			}

			// Write the file's own values, not the env and flag overlay.
			stored, err := core.ReadConfig(paths.ConfigFile)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if err := stored.Set(key, args[1]); err != nil {
				return writeCommandError(cmd, err)
			}
			if err := core.WriteConfig(paths.ConfigFile, stored); err != nil {
				return writeCommandError(cmd, err)
			}
			if jsonMode {
				return json.NewEncoder(out).Encode(map[string]string{key: args[1]})
			}
			fmt.Fprintf(out, "Set %s = %s\n", key, args[1])
			return nil
		},
	}

	return cmd
}

func normalizeConfigKey(value string) string {
	return strings.ReplaceAll(value, "-", "_")
}
