package network

import (
	"errors"

	"github.com/tubecast/video-services/models/registry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// VideoStoreClient is the interface the upload pipelines need from
// the metadata store.
type VideoStoreClient interface {
	GetVideo(id string) (*registry.Video, error)
	UpdateVideo(video *registry.Video) error
}

// VideoStore is the client for the video metadata database. The
// database provides per-record atomic read-modify-write through
// UpdateVideo; we do not layer optimistic concurrency control on top,
// so concurrent uploads racing on the same video id may interleave.
type VideoStore struct {
	db *gorm.DB
}

func NewVideoStore(dsn string) (*VideoStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(&registry.Video{})
	if err != nil {
		return nil, err
	}
	return &VideoStore{db: db}, nil
}

// GetVideo returns the video with the given id, or nil if no such
// record exists. A nil record with a nil error means not found.
func (s *VideoStore) GetVideo(id string) (*registry.Video, error) {
	video := &registry.Video{}
	err := s.db.First(video, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

// CreateVideo inserts a new video record.
func (s *VideoStore) CreateVideo(video *registry.Video) error {
	return s.db.Create(video).Error
}

// UpdateVideo persists all fields of the given record.
func (s *VideoStore) UpdateVideo(video *registry.Video) error {
	return s.db.Save(video).Error
}

// ListVideosByUser returns all videos owned by userID, newest first.
func (s *VideoStore) ListVideosByUser(userID string) ([]*registry.Video, error) {
	var videos []*registry.Video
	err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}
