package api

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tubecast/video-services/constants"
	"github.com/tubecast/video-services/ingest"
	"github.com/tubecast/video-services/models/common"
	"github.com/tubecast/video-services/models/registry"
)

type createVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// authenticate extracts and validates the bearer credential, returning
// the acting user's id.
func (s *Server) authenticate(c echo.Context) (string, error) {
	token, err := GetBearerToken(c.Request().Header)
	if err != nil {
		return "", err
	}
	return ValidateToken(token, s.context.Config.JWTSecret)
}

// formFile returns the single file uploaded under the given form
// field. Zero or multiple files under that field is a BadRequest.
func formFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest := common.NewBadRequest("request must be multipart form data")
		badRequest.Err = err
		return nil, badRequest
	}
	files := form.File[field]
	if len(files) != 1 {
		return nil, common.NewBadRequest(
			fmt.Sprintf("exactly one '%s' file field is required", field))
	}
	return files[0], nil
}

// CreateVideo creates a new, empty video record owned by the
// authenticated user. The media itself arrives later via UploadVideo.
func (s *Server) CreateVideo(c echo.Context) error {
	userID, err := s.authenticate(c)
	if err != nil {
		return s.respondWithError(c, err)
	}
	req := &createVideoRequest{}
	if err = c.Bind(req); err != nil {
		badRequest := common.NewBadRequest("invalid request body")
		badRequest.Err = err
		return s.respondWithError(c, badRequest)
	}
	video := &registry.Video{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err = s.context.VideoStore.CreateVideo(video); err != nil {
		return s.respondWithError(c, err)
	}
	return respondWithJSON(c, http.StatusCreated, video)
}

// GetVideo returns one of the authenticated user's video records with
// a presigned playback URL substituted for the stored key.
func (s *Server) GetVideo(c echo.Context) error {
	userID, err := s.authenticate(c)
	if err != nil {
		return s.respondWithError(c, err)
	}
	video, err := s.context.VideoStore.GetVideo(c.Param("videoID"))
	if err != nil {
		return s.respondWithError(c, err)
	}
	if video == nil {
		return s.respondWithError(c, common.NewNotFound("video not found"))
	}
	if video.UserID != userID {
		return s.respondWithError(c,
			common.NewForbidden("user is not the owner of this video"))
	}
	signed, err := ingest.SignForResponse(c.Request().Context(),
		s.context.ObjectStore, s.context.Config.SignedURLTTL, video)
	if err != nil {
		return s.respondWithError(c, err)
	}
	return respondWithJSON(c, http.StatusOK, signed)
}

// ListVideos returns the authenticated user's video records, each
// with a presigned playback URL substituted.
func (s *Server) ListVideos(c echo.Context) error {
	userID, err := s.authenticate(c)
	if err != nil {
		return s.respondWithError(c, err)
	}
	videos, err := s.context.VideoStore.ListVideosByUser(userID)
	if err != nil {
		return s.respondWithError(c, err)
	}
	signed := make([]*registry.Video, len(videos))
	for i, video := range videos {
		signed[i], err = ingest.SignForResponse(c.Request().Context(),
			s.context.ObjectStore, s.context.Config.SignedURLTTL, video)
		if err != nil {
			return s.respondWithError(c, err)
		}
	}
	return respondWithJSON(c, http.StatusOK, signed)
}

// UploadVideo accepts a multipart MP4 upload for a video the
// authenticated user owns and runs the ingestion pipeline on it.
func (s *Server) UploadVideo(c echo.Context) error {
	userID, err := s.authenticate(c)
	if err != nil {
		return s.respondWithError(c, err)
	}
	header, err := formFile(c, constants.FormFieldVideo)
	if err != nil {
		return s.respondWithError(c, err)
	}
	file, err := header.Open()
	if err != nil {
		return s.respondWithError(c, err)
	}
	defer file.Close()

	uploader := ingest.NewVideoUploader(s.context, c.Param("videoID"), userID)
	video, err := uploader.Run(c.Request().Context(), file, header)
	if err != nil {
		return s.respondWithError(c, err)
	}
	return respondWithJSON(c, http.StatusOK, video)
}

// UploadThumbnail accepts a multipart image upload and stores it as
// the video's thumbnail under the public assets directory.
func (s *Server) UploadThumbnail(c echo.Context) error {
	userID, err := s.authenticate(c)
	if err != nil {
		return s.respondWithError(c, err)
	}
	header, err := formFile(c, constants.FormFieldThumbnail)
	if err != nil {
		return s.respondWithError(c, err)
	}
	file, err := header.Open()
	if err != nil {
		return s.respondWithError(c, err)
	}
	defer file.Close()

	uploader := ingest.NewThumbnailUploader(s.context, c.Param("videoID"), userID)
	video, err := uploader.Run(c.Request().Context(), file, header)
	if err != nil {
		return s.respondWithError(c, err)
	}
	return respondWithJSON(c, http.StatusOK, video)
}
