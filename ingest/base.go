// Package ingest implements the upload pipelines: the sequence of
// steps that takes a user-submitted file from multipart form data to
// a recorded, playable asset.
package ingest

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/op/go-logging"
	"github.com/tubecast/video-services/assets"
	"github.com/tubecast/video-services/models/common"
	"github.com/tubecast/video-services/models/registry"
	"github.com/tubecast/video-services/network"
)

// Inspector classifies the orientation of a local video file.
// Implemented by media.Inspector.
type Inspector interface {
	Classify(ctx context.Context, pathToFile string) (string, error)
}

// Repackager produces a fast-start variant of a local MP4 file.
// Implemented by media.Repackager.
type Repackager interface {
	FastStart(ctx context.Context, pathToFile string) (string, error)
}

// Base is the base type for upload pipelines. It carries the request
// identity, the shared collaborators, and the list of temp files to
// delete when the pipeline exits.
type Base struct {
	Config  *common.Config
	Logger  *logging.Logger
	Videos  network.VideoStoreClient
	UserID  string
	VideoID string

	tempPaths []string
}

// AuthorizeOwner looks up the target video record and checks that the
// authenticated user owns it.
func (b *Base) AuthorizeOwner() (*registry.Video, error) {
	video, err := b.Videos.GetVideo(b.VideoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, common.NewNotFound("video not found")
	}
	if video.UserID != b.UserID {
		return nil, common.NewForbidden("user is not the owner of this video")
	}
	return video, nil
}

// RegisterTempFile records a temp file for deletion when the pipeline
// exits. Call this as soon as the file is created, before anything
// that can fail, so no exit path leaks it.
func (b *Base) RegisterTempFile(pathToFile string) {
	b.tempPaths = append(b.tempPaths, pathToFile)
}

// RemoveTempFiles deletes every registered temp file. Pipelines defer
// this at the top of Run so cleanup happens on success and on every
// failure path alike.
func (b *Base) RemoveTempFiles() {
	for _, pathToFile := range b.tempPaths {
		err := os.Remove(pathToFile)
		if err != nil && !os.IsNotExist(err) {
			b.Logger.Errorf("Could not remove temp file %s: %v", pathToFile, err)
		}
	}
	b.tempPaths = nil
}

// PersistTemp writes the uploaded bytes to a newly named file under
// the ingest temp dir and registers it for cleanup.
func (b *Base) PersistTemp(file multipart.File, mediaType string) (string, error) {
	filename, err := assets.NewFilename(mediaType)
	if err != nil {
		return "", err
	}
	pathToFile := filepath.Join(b.Config.IngestTempDir, filename)
	out, err := os.Create(pathToFile)
	if err != nil {
		return "", err
	}
	b.RegisterTempFile(pathToFile)
	_, err = io.Copy(out, file)
	closeErr := out.Close()
	if err != nil {
		return "", err
	}
	if closeErr != nil {
		return "", closeErr
	}
	return pathToFile, nil
}

// DeclaredMediaType parses the Content-Type the client declared for
// an uploaded file. Malformed declarations come back as BadRequest.
func DeclaredMediaType(header *multipart.FileHeader) (string, error) {
	declared := header.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		badRequest := common.NewBadRequest("uploaded file has no valid content type")
		badRequest.Err = err
		return "", badRequest
	}
	return mediaType, nil
}

// SignForResponse returns a copy of the record with its storage key
// replaced by a presigned URL, for presentation only. Records whose
// VideoURL is unset pass through unchanged.
func SignForResponse(ctx context.Context, objects network.ObjectStoreClient, ttl time.Duration, video *registry.Video) (*registry.Video, error) {
	if video.VideoURL == nil || *video.VideoURL == "" {
		return video, nil
	}
	signedURL, err := objects.PresignGet(ctx, *video.VideoURL, ttl)
	if err != nil {
		return nil, err
	}
	return video.SignedCopy(signedURL), nil
}
