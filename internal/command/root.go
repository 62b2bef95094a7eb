package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "recall"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Recall - per-field autocomplete history for terminal forms",
		Long:          "Recall remembers what you typed into each form field and suggests it back, ranked by fuzzy match.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("db", "", "sqlite database path (implies --store sqlite)")
	cmd.PersistentFlags().String("file", "", "JSON history file path (implies --store file)")
	cmd.PersistentFlags().String("store", "", "history backend: sqlite, file or memory")
	cmd.PersistentFlags().String("config", "", "config file path")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")
	cmd.PersistentFlags().Bool("debug", false, "write debug logs")

	cmd.AddCommand(
		NewInitCmd(),
		NewFormCmd(),
		NewHistoryCmd(),
		NewConfigCmd(),
	)

	return cmd
}

func Execute() error {
	return NewRootCmd(Version).Execute()
}
