package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
)

// Prepare checks the input and, for video, extracts a mono WAV track.
func (p *implPreparer) Prepare(ctx context.Context, mediaPath string) (string, func(), error) {
	info, err := os.Stat(mediaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, apperrors.Inputf("prepare media", mediaPath, "file does not exist")
		}
		return "", nil, apperrors.Input("prepare media", mediaPath, err)
	}
	if info.IsDir() {
		return "", nil, apperrors.Inputf("prepare media", mediaPath, "is a directory")
	}

	switch {
	case IsAudio(mediaPath):
		p.logger.Debug(ctx, "Audio input, skipping extraction: %s", mediaPath)
		return mediaPath, func() {}, nil
	case IsVideo(mediaPath):
		return p.extractAudio(ctx, mediaPath)
	default:
		return "", nil, apperrors.Inputf("prepare media", mediaPath, "unsupported file type %q", filepath.Ext(mediaPath))
	}
}

// extractAudio converts the video's audio to 16kHz mono PCM in a private temp dir.
func (p *implPreparer) extractAudio(ctx context.Context, videoPath string) (string, func(), error) {
	if _, err := p.executor.LookPath(p.cfg.FFmpegPath); err != nil {
		return "", nil, apperrors.Config("prepare media", "ffmpeg not found. Install it to process video files: %v", err)
	}

	hasAudio, err := p.hasAudioStream(ctx, videoPath)
	if err != nil {
		return "", nil, err
	}
	if !hasAudio {
		return "", nil, apperrors.Inputf("prepare media", videoPath, "no audio stream found; this video has no audio to transcribe")
	}

	tempDir, err := os.MkdirTemp(p.cfg.TempDir, "scribe-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { p.removeTemp(ctx, tempDir) }

	audioPath := filepath.Join(tempDir, Stem(videoPath)+".wav")
	p.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn: drop video, -ac 1: mono, pcm_s16le: uncompressed WAV
	args := []string{
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(p.cfg.SampleRate),
		"-ac", "1",
		"-y",
		audioPath,
	}

	if _, err := p.executor.Execute(ctx, p.cfg.FFmpegPath, args...); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	p.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, cleanup, nil
}

// hasAudioStream asks ffprobe for audio streams; any output means at least one.
func (p *implPreparer) hasAudioStream(ctx context.Context, path string) (bool, error) {
	out, err := p.executor.Execute(ctx, p.cfg.FFprobePath,
		"-i", path,
		"-show_streams",
		"-select_streams", "a",
		"-loglevel", "quiet",
	)
	if err != nil {
		return false, fmt.Errorf("ffprobe %s: %w", filepath.Base(path), err)
	}
	return strings.TrimSpace(out) != "", nil
}
