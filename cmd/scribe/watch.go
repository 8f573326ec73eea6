package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/course-scribe/internal/credentials"
	"github.com/nguyentantai21042004/course-scribe/internal/watcher"
)

func newWatchCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Process new recordings dropped into a directory",
		Long: `Watch a directory and process every new video or audio file.

A recording with a sibling <stem>.txt or <stem>.md outline runs the course
pipeline; anything else is transcribed to markdown. Press Ctrl+C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			dir := cfg.Watch.Input
			if len(args) == 1 {
				dir = args[0]
			}

			keys, err := app.requireKeys(credentials.Speech, credentials.Reasoning)
			if err != nil {
				return err
			}
			proc, err := app.buildProcessor(keys)
			if err != nil {
				return err
			}

			for _, d := range []string{dir, cfg.Paths.Output} {
				if err := os.MkdirAll(d, 0755); err != nil {
					return fmt.Errorf("create directory %s: %w", d, err)
				}
			}

			ctx, cancel := app.runContext(cmd.Context())
			defer cancel()
			log := app.log

			w, err := watcher.New(dir, proc.Process, log, cfg.Watch.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			errChan := make(chan error, 1)
			go func() {
				errChan <- w.Start(ctx)
			}()

			log.Info(ctx, "Monitoring: %s", dir)
			log.Info(ctx, "Output: %s", cfg.Paths.Output)
			log.Info(ctx, "Concurrent: %d lessons at once", cfg.Watch.MaxConcurrent)
			log.Info(ctx, "Press Ctrl+C to stop")

			select {
			case <-ctx.Done():
				log.Info(ctx, "Shutdown signal received, waiting for running lessons...")
				if err := <-errChan; err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
			case err := <-errChan:
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Error(ctx, "Watcher error: %v", err)
					return err
				}
			}

			log.Info(ctx, "Watcher stopped")
			return nil
		},
	}

	return cmd
}
