package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
)

type fakeExecutor struct {
	probeOut  string
	ffmpegErr error
	missing   bool
	calls     [][]string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	switch name {
	case "ffprobe":
		return f.probeOut, nil
	case "ffmpeg":
		if f.ffmpegErr != nil {
			return "", f.ffmpegErr
		}
		out := args[len(args)-1]
		return "", os.WriteFile(out, []byte("RIFF"), 0o644)
	}
	return "", errors.New("unexpected command " + name)
}

func (f *fakeExecutor) LookPath(name string) (string, error) {
	if f.missing {
		return "", errors.New(name + " not found")
	}
	return "/usr/bin/" + name, nil
}

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	return path
}

func TestFileTypes(t *testing.T) {
	assert.True(t, IsVideo("a/Lesson.MP4"))
	assert.True(t, IsVideo("x.m4v"))
	assert.False(t, IsVideo("x.mp3"))
	assert.True(t, IsAudio("x.FLAC"))
	assert.False(t, IsSupported("notes.txt"))
	assert.Equal(t, "lesson.week3", Stem("/v/lesson.week3.mov"))
}

func TestPrepareAudioPassesThrough(t *testing.T) {
	exec := &fakeExecutor{}
	path := touch(t, "talk.mp3")

	got, cleanup, err := New(Config{}, exec, logger.Nop()).Prepare(context.Background(), path)
	require.NoError(t, err)
	cleanup()

	assert.Equal(t, path, got)
	assert.Empty(t, exec.calls)
	assert.FileExists(t, path)
}

func TestPrepareVideoExtractsAndCleansUp(t *testing.T) {
	exec := &fakeExecutor{probeOut: "[STREAM]\ncodec_type=audio\n[/STREAM]"}
	video := touch(t, "lesson.mp4")
	temp := t.TempDir()

	audio, cleanup, err := New(Config{TempDir: temp, SampleRate: 22050}, exec, logger.Nop()).Prepare(context.Background(), video)
	require.NoError(t, err)

	assert.Equal(t, "lesson.wav", filepath.Base(audio))
	assert.Equal(t, temp, filepath.Dir(filepath.Dir(audio)))
	assert.FileExists(t, audio)

	require.Len(t, exec.calls, 2)
	assert.Equal(t, "ffprobe", exec.calls[0][0])
	ffmpeg := exec.calls[1]
	assert.Equal(t, "ffmpeg", ffmpeg[0])
	assert.Contains(t, ffmpeg, "22050")
	assert.Contains(t, ffmpeg, "pcm_s16le")

	cleanup()
	assert.NoDirExists(t, filepath.Dir(audio))
}

func TestPrepareVideoWithoutAudio(t *testing.T) {
	exec := &fakeExecutor{probeOut: "  \n"}
	_, _, err := New(Config{TempDir: t.TempDir()}, exec, logger.Nop()).Prepare(context.Background(), touch(t, "silent.mov"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInput, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "no audio stream")
}

func TestPrepareFailures(t *testing.T) {
	ctx := context.Background()

	_, _, err := New(Config{}, &fakeExecutor{}, logger.Nop()).Prepare(ctx, filepath.Join(t.TempDir(), "gone.mp4"))
	assert.Equal(t, apperrors.KindInput, apperrors.KindOf(err))

	_, _, err = New(Config{}, &fakeExecutor{}, logger.Nop()).Prepare(ctx, touch(t, "notes.txt"))
	assert.Equal(t, apperrors.KindInput, apperrors.KindOf(err))

	_, _, err = New(Config{}, &fakeExecutor{missing: true}, logger.Nop()).Prepare(ctx, touch(t, "a.mp4"))
	assert.Equal(t, apperrors.KindConfig, apperrors.KindOf(err))

	temp := t.TempDir()
	exec := &fakeExecutor{probeOut: "x", ffmpegErr: errors.New("boom")}
	_, _, err = New(Config{TempDir: temp}, exec, logger.Nop()).Prepare(ctx, touch(t, "a.mp4"))
	require.Error(t, err)
	entries, _ := os.ReadDir(temp)
	assert.Empty(t, entries, "failed extraction must not leave scratch files")
}
