package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
)

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	if app.LogOutput == nil {
		app.LogOutput = io.Discard
	}
	if app.Getenv == nil {
		app.Getenv = func(string) string { return "" }
	}
	var out bytes.Buffer
	root := NewRootCommand(app)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseSpeakers(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"Alice", []string{"Alice"}},
		{" Alice , Bob ,, ", []string{"Alice", "Bob"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseSpeakers(tt.raw), tt.raw)
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask("abcd"))
	assert.Equal(t, "abcd****wxyz", mask("abcd1234wxyz"))
}

func TestBatchCommandWritesDigest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "week3_loops_actions.json"),
		[]byte(`[{"text":"Send the slides","owner":"Sam","source_file":"week3_loops.mp4"}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "week3_vars_actions.json"),
		[]byte(`[{"text":"send  the SLIDES","source_file":"week3_vars.mp4"}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "week4_intro_actions.json"),
		[]byte(`[{"text":"Book a room"}]`), 0644))

	out, err := run(t, &App{}, "batch", dir, "--week", "3")
	require.NoError(t, err)

	digestPath := filepath.Join(dir, "weekly_todo_week3.md")
	assert.Contains(t, out, digestPath)
	assert.Contains(t, out, "1 items from 2 files")

	data, err := os.ReadFile(digestPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Send the slides")
	assert.NotContains(t, string(data), "Book a room")
}

func TestBatchCommandInvalidFileWritesNothing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_actions.json"), []byte(`{"text":"x"}`), 0644))

	_, err := run(t, &App{}, "batch", dir)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInput))
	assert.Contains(t, err.Error(), "a_actions.json")

	_, statErr := os.Stat(filepath.Join(dir, "weekly_todo.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBatchCommandRejectsNegativeWeek(t *testing.T) {
	_, err := run(t, &App{}, "batch", t.TempDir(), "--week", "-1")
	assert.Error(t, err)
}

func TestCourseCommandRequiresCredentialsFirst(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := run(t, &App{}, "course", "missing.mp4", "missing.txt", "-o", outDir)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConfig))
	assert.Contains(t, err.Error(), "DEEPGRAM_API_KEY")

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCourseCommandNeedsReasoningKey(t *testing.T) {
	app := &App{Getenv: func(k string) string {
		if k == "DEEPGRAM_API_KEY" {
			return "dg-key"
		}
		return ""
	}}

	_, err := run(t, app, "course", "lesson.mp4", "lesson.txt")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConfig))
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestTranscribeCommandRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, &App{}, "transcribe", "lesson.mp4", "-f", "pdf")
	assert.Error(t, err)
}

func TestTranscribeNoSummaryNeedsOnlySpeechKey(t *testing.T) {
	app := &App{Getenv: func(k string) string {
		if k == "DEEPGRAM_API_KEY" {
			return "dg-key"
		}
		return ""
	}}

	// credentials pass; the missing media file is the failure
	_, err := run(t, app, "transcribe", filepath.Join(t.TempDir(), "nope.m4a"), "--no-summary")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInput))
}

func TestAuthSetAndDelete(t *testing.T) {
	keyring.MockInit()

	out, err := run(t, &App{Stdin: strings.NewReader("dg-secret-key-1234\n")}, "auth", "set", "speech")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored speech key")
	assert.NotContains(t, out, "secret")

	got, err := keyring.Get("course-scribe", "speech")
	require.NoError(t, err)
	assert.Equal(t, "dg-secret-key-1234", got)

	_, err = run(t, &App{}, "auth", "delete", "speech")
	require.NoError(t, err)
	_, err = keyring.Get("course-scribe", "speech")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestAuthSetRejectsEmptyKeyAndUnknownService(t *testing.T) {
	keyring.MockInit()

	_, err := run(t, &App{Stdin: strings.NewReader("\n")}, "auth", "set", "reasoning")
	assert.Error(t, err)

	_, err = run(t, &App{Stdin: strings.NewReader("k\n")}, "auth", "set", "storage")
	assert.Error(t, err)
}
