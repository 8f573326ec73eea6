package media

import "context"

// Preparer turns a media file into an audio file the speech service accepts.
type Preparer interface {
	// Prepare returns the audio path and a cleanup func that removes anything
	// it created. Audio inputs are returned as is with a no-op cleanup.
	Prepare(ctx context.Context, mediaPath string) (string, func(), error)
}
