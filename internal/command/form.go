package command

import (
	"encoding/json"
	"fmt"

	"github.com/adamavenir/recall/internal/form"
	"github.com/adamavenir/recall/internal/rank"
	"github.com/spf13/cobra"
)

// NewFormCmd creates the form command.
func NewFormCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form [layout.yaml]",
		Short: "Fill in a terminal form with autocomplete",
		Long:  "Open a terminal form. Each field suggests values previously entered in fields with the same name.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			layout := form.DefaultLayout()
			if len(args) == 1 {
				layout, err = form.LoadLayout(args[0])
				if err != nil {
					return writeCommandError(cmd, err)
				}
			}

			ranker, err := rank.NewAdapter(rank.FuzzyEngine{}, rank.Options{
				Limit:     ctx.Config.Limit,
				Threshold: ctx.Config.Threshold,
				Highlight: true,
			}, ctx.Logger)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			result, err := form.Run(form.Options{
				Layout:  layout,
				Store:   ctx.Store,
				Ranker:  ranker,
				Exclude: ctx.Config.Exclude,
				Logger:  ctx.Logger,
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if !result.Submitted {
				return nil
			}

			out := cmd.OutOrStdout()
			if ctx.JSONMode {
				return json.NewEncoder(out).Encode(result.Values)
			}
			for _, value := range result.Values {
				fmt.Fprintf(out, "%s: %s\n", value.Key, value.Value)
			}
			return nil
		},
	}

	return cmd
}
