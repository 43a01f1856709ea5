// Package media wraps the external ffprobe and ffmpeg tools behind
// small interfaces the upload pipeline can call (and tests can mock).
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/tubecast/video-services/constants"
)

// InspectionError means ffprobe failed to run or produced no usable
// video stream info. Output holds the tool's diagnostic output for
// the logs; Error() stays generic for clients.
type InspectionError struct {
	Err    error
	Output string
}

func (e *InspectionError) Unwrap() error {
	return e.Err
}

func (e *InspectionError) Error() string {
	return "media inspection failed"
}

func (e *InspectionError) Detail() string {
	return fmt.Sprintf("Media inspection failed: %v. Tool output: %s",
		e.Err, e.Output)
}

// probeOutput is the subset of ffprobe's -show_streams JSON we care
// about.
type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Inspector classifies the orientation of local video files by
// probing their first video stream with ffprobe.
type Inspector struct {
	PathToFFprobe string
	Timeout       time.Duration
}

func NewInspector(pathToFFprobe string, timeout time.Duration) *Inspector {
	return &Inspector{
		PathToFFprobe: pathToFFprobe,
		Timeout:       timeout,
	}
}

// Classify returns the orientation bucket for the video file at
// pathToFile: landscape, portrait or other. No asset is published
// without a known classification, so any probe failure is an
// InspectionError that aborts the upload.
func (i *Inspector) Classify(ctx context.Context, pathToFile string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, i.PathToFFprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		pathToFile,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		return "", &InspectionError{Err: err, Output: stderr.String()}
	}

	width, height, err := ParseProbeOutput(stdout.Bytes())
	if err != nil {
		return "", &InspectionError{Err: err, Output: stdout.String()}
	}
	return ClassifyDimensions(width, height), nil
}

// ParseProbeOutput extracts the pixel width and height of the first
// video stream from ffprobe's JSON output. It returns an error if the
// output contains no video stream with usable dimensions.
func ParseProbeOutput(data []byte) (width, height int, err error) {
	parsed := probeOutput{}
	err = json.Unmarshal(data, &parsed)
	if err != nil {
		return 0, 0, err
	}
	for _, stream := range parsed.Streams {
		if stream.CodecType == "video" && stream.Width > 0 && stream.Height > 0 {
			return stream.Width, stream.Height, nil
		}
	}
	return 0, 0, fmt.Errorf("probe output contains no video stream with dimensions")
}

// ClassifyDimensions buckets a video by the floor of width/height:
// 1 is landscape, 0 is portrait, anything else is other. This is a
// deliberately coarse ratio bucket, not a true aspect-ratio test, so
// a 1000x1000 video lands in the landscape bucket.
func ClassifyDimensions(width, height int) string {
	if height <= 0 {
		return constants.OrientationOther
	}
	ratio := width / height
	if ratio == 1 {
		return constants.OrientationLandscape
	}
	if ratio == 0 {
		return constants.OrientationPortrait
	}
	return constants.OrientationOther
}
