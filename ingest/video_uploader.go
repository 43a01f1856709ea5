package ingest

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/tubecast/video-services/constants"
	"github.com/tubecast/video-services/media"
	"github.com/tubecast/video-services/models/common"
	"github.com/tubecast/video-services/models/registry"
	"github.com/tubecast/video-services/network"
)

// VideoUploader runs the video ingestion pipeline for one upload
// request:
//
// 1. Check that the authenticated user owns the target video record.
//
// 2. Validate the uploaded file's declared type and size.
//
// 3. Write the bytes to a temp file under the ingest temp dir.
//
// 4. Classify the video's orientation and compose the storage key.
//
// 5. Remux the file for fast-start playback.
//
// 6. Upload the processed file to the object store.
//
// 7. Record the storage key on the video record.
//
// 8. Respond with the record carrying a presigned URL.
//
// The steps run strictly in order, with no retries: any failure
// aborts the request. Temp files are deleted on every exit path.
type VideoUploader struct {
	Base
	Inspector  Inspector
	Objects    network.ObjectStoreClient
	Repackager Repackager
}

// NewVideoUploader creates a new VideoUploader for one request.
func NewVideoUploader(context *common.Context, videoID, userID string) *VideoUploader {
	return &VideoUploader{
		Base: Base{
			Config:  context.Config,
			Logger:  context.Logger,
			Videos:  context.VideoStore,
			UserID:  userID,
			VideoID: videoID,
		},
		Inspector:  media.NewInspector(context.Config.FFprobePath, context.Config.ToolTimeout),
		Objects:    context.ObjectStore,
		Repackager: media.NewRepackager(context.Config.FFmpegPath, context.Config.ToolTimeout),
	}
}

// Run executes the pipeline and returns the updated record with a
// presigned playback URL substituted for the stored key. The stored
// record itself keeps the key; signed URLs are never persisted.
func (u *VideoUploader) Run(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*registry.Video, error) {
	defer u.RemoveTempFiles()

	video, err := u.AuthorizeOwner()
	if err != nil {
		return nil, err
	}
	mediaType, err := u.ValidateUpload(header)
	if err != nil {
		return nil, err
	}
	u.Logger.Infof("Uploading video %s for user %s", u.VideoID, u.UserID)

	tempPath, err := u.PersistTemp(file, mediaType)
	if err != nil {
		return nil, err
	}
	orientation, err := u.Inspector.Classify(ctx, tempPath)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%s", orientation, filepath.Base(tempPath))

	processedPath, err := u.Repackager.FastStart(ctx, tempPath)
	if err != nil {
		return nil, err
	}
	u.RegisterTempFile(processedPath)

	err = u.Objects.Upload(ctx, key, processedPath, mediaType)
	if err != nil {
		return nil, err
	}

	video.VideoURL = &key
	err = u.Videos.UpdateVideo(video)
	if err != nil {
		return nil, err
	}
	u.Logger.Infof("Recorded video %s at key %s", u.VideoID, key)

	return SignForResponse(ctx, u.Objects, u.Config.SignedURLTTL, video)
}

// ValidateUpload checks the declared content type and size of the
// uploaded file before any bytes touch the disk.
func (u *VideoUploader) ValidateUpload(header *multipart.FileHeader) (string, error) {
	mediaType, err := DeclaredMediaType(header)
	if err != nil {
		return "", err
	}
	if mediaType != constants.MediaTypeMP4 {
		return "", common.NewBadRequest("video must be an MP4 file")
	}
	if header.Size > constants.MaxVideoUploadSize {
		return "", common.NewBadRequest("video exceeds the 1 GiB upload limit")
	}
	return mediaType, nil
}
