package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/course-scribe/internal/actions"
	"github.com/nguyentantai21042004/course-scribe/internal/aligner"
	"github.com/nguyentantai21042004/course-scribe/internal/config"
	"github.com/nguyentantai21042004/course-scribe/internal/credentials"
	"github.com/nguyentantai21042004/course-scribe/internal/llm"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/internal/media"
	"github.com/nguyentantai21042004/course-scribe/internal/processor"
	"github.com/nguyentantai21042004/course-scribe/internal/summarizer"
	"github.com/nguyentantai21042004/course-scribe/internal/transcriber"
	"github.com/nguyentantai21042004/course-scribe/pkg/executor"
)

// App carries what every subcommand shares. Tests replace Getenv, Stdin and
// LogOutput; production leaves them nil.
type App struct {
	ConfigPath string
	Verbose    bool

	Getenv    func(string) string
	Stdin     io.Reader
	LogOutput io.Writer

	cfg *config.Config
	log logger.Logger
}

// NewRootCommand builds the scribe command tree.
func NewRootCommand(app *App) *cobra.Command {
	if app == nil {
		app = &App{}
	}

	root := &cobra.Command{
		Use:   "scribe",
		Short: "Transcribe lessons, diff them against their outline and collect action items",
		Long: `scribe turns recorded lessons into transcripts, course diffs and to-do lists.

Commands:
  transcribe   Transcribe a video or audio file
  course       Diff a lesson against its outline and extract action items
  batch        Merge a week's action-item files into one digest
  watch        Process new recordings dropped into a directory
  auth         Store API keys in the OS keyring

Credentials:
  DEEPGRAM_API_KEY   speech-to-text
  GEMINI_API_KEY     reasoning (comma-separated keys rotate on rate limits)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newTranscribeCommand(app),
		newCourseCommand(app),
		newBatchCommand(app),
		newWatchCommand(app),
		newAuthCommand(app),
	)
	return root
}

func (a *App) setup() error {
	cfg, err := config.LoadOrDefault(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.Verbose {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg
	a.log = logger.NewWithConfig(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: a.LogOutput,
	})
	return nil
}

// runContext returns a run-scoped context cancelled on SIGINT or SIGTERM.
func (a *App) runContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	ctx = logger.WithRunID(ctx, uuid.NewString())
	a.log.Debug(ctx, "System: %s/%s, config: %s", runtime.GOOS, runtime.GOARCH, a.configName())
	return ctx, cancel
}

func (a *App) configName() string {
	if a.ConfigPath == "" {
		return "defaults"
	}
	return a.ConfigPath
}

// requireKeys resolves the keys the command needs before any stage runs.
func (a *App) requireKeys(services ...credentials.Service) (credentials.Set, error) {
	r := credentials.NewResolver(a.cfg.Credentials.UseKeyring)
	if a.Getenv != nil {
		r.Getenv = a.Getenv
	}
	return r.Require(services...)
}

// buildProcessor wires a Processor for the resolved keys. Reasoning-backed stages
// are left nil when no reasoning key was required.
func (a *App) buildProcessor(keys credentials.Set) (processor.Processor, error) {
	cfg := a.cfg

	deps := processor.Deps{
		Config: cfg,
		Media: media.New(media.Config{
			FFmpegPath:  cfg.FFmpeg.BinaryPath,
			FFprobePath: cfg.FFmpeg.ProbePath,
			SampleRate:  cfg.FFmpeg.SampleRate,
			TempDir:     cfg.Paths.Temp,
		}, executor.New(), a.log),
		Transcriber: transcriber.New(transcriber.Config{
			Host:    cfg.Speech.Host,
			APIKey:  keys.SpeechKey,
			Timeout: cfg.Speech.Timeout,
			Retry:   cfg.Retry,
		}, a.log),
		Logger: a.log,
	}

	if len(keys.ReasoningKeys) > 0 {
		client, err := llm.NewGemini(llm.GeminiConfig{
			APIKeys:         keys.ReasoningKeys,
			Model:           cfg.Reasoning.Model,
			MaxOutputTokens: cfg.Reasoning.MaxOutputTokens,
			Timeout:         cfg.Reasoning.Timeout,
		}, a.log)
		if err != nil {
			return nil, err
		}
		deps.Aligner = aligner.New(client, aligner.Config{
			CoveredThreshold: cfg.Alignment.CoveredThreshold,
			PartialThreshold: cfg.Alignment.PartialThreshold,
			Retry:            cfg.Retry,
		}, a.log)
		deps.Extractor = actions.New(client, cfg.Retry, a.log)
		deps.Summarizer = summarizer.New(client, cfg.Retry, a.log)
	}

	return processor.New(deps), nil
}

// parseSpeakers splits a comma-separated --speakers value.
func parseSpeakers(raw string) []string {
	var names []string
	for _, n := range strings.Split(raw, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func (a *App) stdin() io.Reader {
	if a.Stdin != nil {
		return a.Stdin
	}
	return os.Stdin
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
