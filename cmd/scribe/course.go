package main

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/course-scribe/internal/aligner"
	"github.com/nguyentantai21042004/course-scribe/internal/credentials"
	"github.com/nguyentantai21042004/course-scribe/internal/processor"
)

func newCourseCommand(app *App) *cobra.Command {
	var (
		week      int
		output    string
		speakers  string
		noDiarize bool
	)

	cmd := &cobra.Command{
		Use:   "course <video> <notes>",
		Short: "Diff a lesson against its outline and extract action items",
		Long: `Transcribe a lesson, align it against its outline notes and write:

  <stem>_diff.md        topic-by-topic coverage with tangents marked as extra
  <stem>_diff.json      the same report as JSON, with the coverage ratio
  <stem>_actions.json   action items mentioned during the lesson

A diff whose alignment could not be computed is still written, marked as
degraded, and the command succeeds.

Examples:
  scribe course week3_loops.mp4 week3_loops.txt --week 3
  scribe course lesson.mov outline.md -o out/`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := app.requireKeys(credentials.Speech, credentials.Reasoning)
			if err != nil {
				return err
			}
			proc, err := app.buildProcessor(keys)
			if err != nil {
				return err
			}

			ctx, cancel := app.runContext(cmd.Context())
			defer cancel()

			result, err := proc.Course(ctx, args[0], args[1], processor.CourseOptions{
				Week:      week,
				OutputDir: output,
				Speakers:  parseSpeakers(speakers),
				Diarize:   !noDiarize && app.cfg.Speech.DiarizeEnabled(),
			})
			if err != nil {
				return err
			}

			covered := 0
			for _, e := range result.Report.TopicEntries() {
				if e.Status != aligner.StatusMissing {
					covered++
				}
			}
			printf(cmd, "%s\n%s\n%s\n", result.DiffPath, result.DiffJSONPath, result.ActionsPath)
			printf(cmd, "Coverage: %.0f%% (%d of %d topics), %d action items\n",
				result.Report.Coverage*100, covered, len(result.Report.TopicEntries()), len(result.Items))
			if result.Report.Degraded {
				printf(cmd, "Warning: alignment degraded: %v\n", result.Report.Warning)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Week number the lesson belongs to")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&speakers, "speakers", "", "Comma-separated speaker names in order of appearance")
	cmd.Flags().BoolVar(&noDiarize, "no-diarize", false, "Disable speaker diarization")

	return cmd
}
