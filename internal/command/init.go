package command

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adamavenir/recall/internal/core"
	"github.com/adamavenir/recall/internal/db"
	"github.com/spf13/cobra"
)

type initResult struct {
	Initialized    bool   `json:"initialized"`
	AlreadyExisted bool   `json:"already_existed"`
	Path           string `json:"path"`
	DBPath         string `json:"db_path"`
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Keep a separate history for a directory tree",
		Long:  "Create a .recall directory. Commands run below it use its database instead of the global one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			abs, err := filepath.Abs(dir)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			_, statErr := os.Stat(filepath.Join(abs, core.ProjectDirName))
			existed := statErr == nil

			target, err := core.InitProjectDir(abs)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			paths := core.Paths{Dir: target}
			conn, err := db.OpenDatabase(paths.DB())
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer conn.Close()
			if err := db.InitSchema(conn); err != nil {
				return writeCommandError(cmd, err)
			}

			result := initResult{Initialized: true, AlreadyExisted: existed, Path: target, DBPath: paths.DB()}
			if jsonMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}
			if existed {
				fmt.Fprintf(cmd.OutOrStdout(), "Already initialized: %s\n", target)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", target)
			return nil
		},
	}

	return cmd
}
