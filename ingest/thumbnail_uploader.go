package ingest

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"strings"

	"github.com/tubecast/video-services/assets"
	"github.com/tubecast/video-services/constants"
	"github.com/tubecast/video-services/models/common"
	"github.com/tubecast/video-services/models/registry"
	"github.com/tubecast/video-services/network"
)

// ThumbnailUploader runs the thumbnail upload pipeline. Thumbnails
// skip inspection and repackaging, and their terminal state is
// simpler than the video pipeline's: the file lands in the public
// assets directory and is served directly by this service, with no
// object-store upload and no presigning.
type ThumbnailUploader struct {
	Base
	Assets  *assets.Resolver
	Objects network.ObjectStoreClient
}

// NewThumbnailUploader creates a new ThumbnailUploader for one request.
func NewThumbnailUploader(context *common.Context, videoID, userID string) *ThumbnailUploader {
	return &ThumbnailUploader{
		Base: Base{
			Config:  context.Config,
			Logger:  context.Logger,
			Videos:  context.VideoStore,
			UserID:  userID,
			VideoID: videoID,
		},
		Assets:  context.Assets,
		Objects: context.ObjectStore,
	}
}

// Run validates the upload, writes the thumbnail to the public assets
// directory, and records its URL on the video record. The written
// file is the served asset, so it is kept on success; on failure the
// partial file is removed.
func (u *ThumbnailUploader) Run(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*registry.Video, error) {
	video, err := u.AuthorizeOwner()
	if err != nil {
		return nil, err
	}
	mediaType, err := u.ValidateUpload(header)
	if err != nil {
		return nil, err
	}
	u.Logger.Infof("Uploading thumbnail for video %s by user %s", u.VideoID, u.UserID)

	filename, err := assets.NewFilename(mediaType)
	if err != nil {
		return nil, err
	}
	localPath := u.Assets.LocalPath(filename)
	err = u.writeAsset(localPath, file)
	if err != nil {
		return nil, err
	}

	publicURL := u.Assets.PublicURL(filename)
	video.ThumbnailURL = &publicURL
	err = u.Videos.UpdateVideo(video)
	if err != nil {
		os.Remove(localPath)
		return nil, err
	}

	return SignForResponse(ctx, u.Objects, u.Config.SignedURLTTL, video)
}

// ValidateUpload checks the declared content type and size before any
// bytes touch the disk. Any image type is accepted.
func (u *ThumbnailUploader) ValidateUpload(header *multipart.FileHeader) (string, error) {
	mediaType, err := DeclaredMediaType(header)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mediaType, constants.MediaTypeImagePrefix) {
		return "", common.NewBadRequest("thumbnail must be an image")
	}
	if header.Size > constants.MaxThumbnailUploadSize {
		return "", common.NewBadRequest("thumbnail exceeds the 10 MiB upload limit")
	}
	return mediaType, nil
}

func (u *ThumbnailUploader) writeAsset(localPath string, file multipart.File) error {
	out, err := os.Create(localPath)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, file)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(localPath)
		return err
	}
	return nil
}
