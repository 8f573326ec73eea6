package main

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/course-scribe/internal/credentials"
	"github.com/nguyentantai21042004/course-scribe/internal/processor"
	"github.com/nguyentantai21042004/course-scribe/internal/render"
)

func newTranscribeCommand(app *App) *cobra.Command {
	var (
		format    string
		output    string
		noTimes   bool
		noSummary bool
		noDiarize bool
		speakers  string
		model     string
		language  string
	)

	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe a video or audio file",
		Long: `Transcribe a video or audio file into markdown, json, text, srt or docx.

Video files have their audio track extracted with ffmpeg first. Unless
--no-summary is given, a title, summary, key points and action items are
generated and added to the transcript.

Examples:
  scribe transcribe lecture.mp4
  scribe transcribe call.m4a -f srt --no-summary
  scribe transcribe standup.mp4 --speakers "Alice,Bob" -o notes/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			services := []credentials.Service{credentials.Speech}
			if !noSummary {
				services = append(services, credentials.Reasoning)
			}
			keys, err := app.requireKeys(services...)
			if err != nil {
				return err
			}
			proc, err := app.buildProcessor(keys)
			if err != nil {
				return err
			}

			ctx, cancel := app.runContext(cmd.Context())
			defer cancel()

			result, err := proc.Transcribe(ctx, args[0], processor.TranscribeOptions{
				Format:    f,
				OutputDir: output,
				NoTimes:   noTimes,
				NoSummary: noSummary,
				Diarize:   !noDiarize && app.cfg.Speech.DiarizeEnabled(),
				Speakers:  parseSpeakers(speakers),
				Model:     model,
				Language:  language,
			})
			if err != nil {
				return err
			}

			printf(cmd, "%s\n", result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "md", "Output format: md, json, text, srt, docx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().BoolVar(&noTimes, "no-times", false, "Omit timestamps (not valid with json)")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "Skip the generated summary")
	cmd.Flags().BoolVar(&noDiarize, "no-diarize", false, "Disable speaker diarization")
	cmd.Flags().StringVar(&speakers, "speakers", "", "Comma-separated speaker names in order of appearance")
	cmd.Flags().StringVar(&model, "model", "", "Speech model (default from config)")
	cmd.Flags().StringVar(&language, "language", "", "Spoken language code (default from config)")

	return cmd
}
