package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/course-scribe/internal/batch"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/internal/render"
)

// BatchResult describes one written weekly digest.
type BatchResult struct {
	Digest *batch.Digest
	Path   string
}

// RunBatch merges the lesson files in dir and writes the digest. The output
// extension picks the format: .json, .docx, otherwise markdown. Nothing is
// written when any lesson file is invalid.
func RunBatch(ctx context.Context, log logger.Logger, dir, output string, week int) (*BatchResult, error) {
	digest, err := batch.Build(dir, week)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "Merged %d lesson files into %d action items", len(digest.Files), len(digest.Items))
	if len(digest.Files) == 0 {
		if week > 0 {
			log.Warn(ctx, "No action-item files for week %d in %s", week, dir)
		} else {
			log.Warn(ctx, "No action-item files in %s", dir)
		}
	}

	path := batch.DigestPath(dir, output, week)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		err = render.DigestDocx(path, digest.Items, week)
	case ".json":
		var data []byte
		if data, err = render.DigestJSON(digest.Items); err == nil {
			err = writeOutput(path, data)
		}
	default:
		var md string
		if md, err = render.DigestMarkdown(digest.Items, week); err == nil {
			err = writeOutput(path, []byte(md))
		}
	}
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "Weekly digest written: %s", path)
	return &BatchResult{Digest: digest, Path: path}, nil
}
