package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// FastStartSuffix is appended to the input path to name the
// repackaged output file.
const FastStartSuffix = ".faststart.mp4"

// RepackagingError means ffmpeg failed to produce the fast-start
// variant. The pipeline must not upload the unprocessed original in
// its place.
type RepackagingError struct {
	Err    error
	Output string
}

func (e *RepackagingError) Unwrap() error {
	return e.Err
}

func (e *RepackagingError) Error() string {
	return "media repackaging failed"
}

func (e *RepackagingError) Detail() string {
	return fmt.Sprintf("Media repackaging failed: %v. Tool output: %s",
		e.Err, e.Output)
}

// Repackager rewrites MP4 container metadata with ffmpeg so the moov
// atom precedes the media data, letting playback begin before the
// whole file has downloaded. Streams are copied, never re-encoded.
type Repackager struct {
	PathToFFmpeg string
	Timeout      time.Duration
}

func NewRepackager(pathToFFmpeg string, timeout time.Duration) *Repackager {
	return &Repackager{
		PathToFFmpeg: pathToFFmpeg,
		Timeout:      timeout,
	}
}

// FastStart remuxes the MP4 at pathToFile into a new file at
// pathToFile + FastStartSuffix and returns that path. The input file
// is left in place, and the output becomes the caller's to clean up
// along with it. On failure, any partial output is removed before the
// error is returned.
func (r *Repackager) FastStart(ctx context.Context, pathToFile string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	outPath := pathToFile + FastStartSuffix
	cmd := exec.CommandContext(ctx, r.PathToFFmpeg,
		"-y",
		"-i", pathToFile,
		"-map_metadata", "0",
		"-c", "copy",
		"-movflags", "faststart",
		"-f", "mp4",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		os.Remove(outPath)
		return "", &RepackagingError{Err: err, Output: stderr.String()}
	}
	return outPath, nil
}
