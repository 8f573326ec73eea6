package media

import (
	"context"
	"os"
)

// removeTemp removes a scratch directory, logs warning if fails
func (p *implPreparer) removeTemp(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp dir: %s", dir)
	}
}
