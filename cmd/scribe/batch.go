package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/course-scribe/internal/processor"
)

func newBatchCommand(app *App) *cobra.Command {
	var (
		week   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Merge a week's action-item files into one digest",
		Long: `Merge every *_actions.json file in a directory into one to-do digest.

Items repeated across lessons are merged, keeping every owner and source. With
--week only files whose name carries that week marker (week3, wk_03, Week-3)
are read. If any file is invalid nothing is written.

The digest defaults to weekly_todo.md (weekly_todo_week<N>.md with --week) in
the scanned directory. An --output ending in .json or .docx selects that format.

Examples:
  scribe batch out/
  scribe batch out/ --week 3 -o digests/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if week < 0 {
				return fmt.Errorf("--week must not be negative, got %d", week)
			}

			ctx, cancel := app.runContext(cmd.Context())
			defer cancel()

			result, err := processor.RunBatch(ctx, app.log, args[0], output, week)
			if err != nil {
				return err
			}

			printf(cmd, "%s\n", result.Path)
			printf(cmd, "%d items from %d files\n", len(result.Digest.Items), len(result.Digest.Files))
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Only merge files marked with this week number")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Digest file or directory")

	return cmd
}
