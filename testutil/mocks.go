// Package testutil contains mock service clients and form-building
// helpers for unit tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tubecast/video-services/media"
	"github.com/tubecast/video-services/models/registry"
)

// MockVideoStore is an in-memory stand-in for network.VideoStore.
type MockVideoStore struct {
	Videos      map[string]*registry.Video
	GetErr      error
	UpdateErr   error
	UpdateCalls int
}

func NewMockVideoStore(videos ...*registry.Video) *MockVideoStore {
	store := &MockVideoStore{
		Videos: make(map[string]*registry.Video),
	}
	for _, video := range videos {
		store.Videos[video.ID] = video
	}
	return store
}

// GetVideo returns a copy of the stored record, so callers mutating
// the result don't silently mutate the store.
func (m *MockVideoStore) GetVideo(id string) (*registry.Video, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	video, ok := m.Videos[id]
	if !ok {
		return nil, nil
	}
	videoCopy := *video
	return &videoCopy, nil
}

func (m *MockVideoStore) UpdateVideo(video *registry.Video) error {
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	videoCopy := *video
	m.Videos[video.ID] = &videoCopy
	return nil
}

// MockObjectStore records uploads and issues fake presigned URLs.
type MockObjectStore struct {
	Uploads      map[string]string // key -> local path uploaded from
	ContentTypes map[string]string // key -> content type
	UploadErr    error
	PresignErr   error
	PresignCalls int
}

func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Uploads:      make(map[string]string),
		ContentTypes: make(map[string]string),
	}
}

func (m *MockObjectStore) Upload(ctx context.Context, key, localPath, contentType string) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	if _, err := os.Stat(localPath); err != nil {
		return fmt.Errorf("mock upload: local file missing: %v", err)
	}
	m.Uploads[key] = localPath
	m.ContentTypes[key] = contentType
	return nil
}

func (m *MockObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.PresignCalls++
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	return fmt.Sprintf(
		"https://tubecast-test.s3.localhost/%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=%d&X-Amz-Signature=mock%d",
		key, int(ttl.Seconds()), m.PresignCalls), nil
}

// MockInspector returns a fixed orientation without running ffprobe.
type MockInspector struct {
	Orientation string
	Err         error
	Calls       int
}

func (m *MockInspector) Classify(ctx context.Context, pathToFile string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Orientation, nil
}

// MockRepackager copies the input file to the fast-start output path
// without running ffmpeg, so the rest of the pipeline sees a real
// file on disk.
type MockRepackager struct {
	Err      error
	Calls    int
	LastPath string
}

func (m *MockRepackager) FastStart(ctx context.Context, pathToFile string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	outPath := pathToFile + media.FastStartSuffix
	data, err := os.ReadFile(pathToFile)
	if err != nil {
		return "", err
	}
	err = os.WriteFile(outPath, data, 0644)
	if err != nil {
		return "", err
	}
	m.LastPath = outPath
	return outPath, nil
}
