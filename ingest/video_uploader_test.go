package ingest_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubecast/video-services/constants"
	"github.com/tubecast/video-services/ingest"
	"github.com/tubecast/video-services/media"
	"github.com/tubecast/video-services/models/common"
	"github.com/tubecast/video-services/models/registry"
	"github.com/tubecast/video-services/testutil"
)

const ownerID = "user-1"
const videoID = "9a1f5c7e-0b8f-4f4b-9a55-0d6f02150c1c"

var keyPattern = regexp.MustCompile(`^landscape/[0-9a-f]{64}\.mp4$`)

func testConfig(t *testing.T) *common.Config {
	return &common.Config{
		AssetsRoot:    t.TempDir(),
		IngestTempDir: t.TempDir(),
		Port:          8091,
		SignedURLTTL:  15 * time.Minute,
		ToolTimeout:   time.Minute,
	}
}

func testVideo() *registry.Video {
	return &registry.Video{
		ID:     videoID,
		UserID: ownerID,
		Title:  "Boats",
	}
}

type uploaderFixture struct {
	uploader   *ingest.VideoUploader
	videos     *testutil.MockVideoStore
	objects    *testutil.MockObjectStore
	inspector  *testutil.MockInspector
	repackager *testutil.MockRepackager
}

func newUploaderFixture(t *testing.T, userID string) *uploaderFixture {
	videos := testutil.NewMockVideoStore(testVideo())
	objects := testutil.NewMockObjectStore()
	inspector := &testutil.MockInspector{Orientation: constants.OrientationLandscape}
	repackager := &testutil.MockRepackager{}
	uploader := &ingest.VideoUploader{
		Base: ingest.Base{
			Config:  testConfig(t),
			Logger:  logging.MustGetLogger("test"),
			Videos:  videos,
			UserID:  userID,
			VideoID: videoID,
		},
		Inspector:  inspector,
		Objects:    objects,
		Repackager: repackager,
	}
	return &uploaderFixture{
		uploader:   uploader,
		videos:     videos,
		objects:    objects,
		inspector:  inspector,
		repackager: repackager,
	}
}

func tempFileCount(t *testing.T, dir string) int {
	entries, err := os.ReadDir(dir)
	require.Nil(t, err)
	return len(entries)
}

func mp4Upload(t *testing.T) (multipart.File, *multipart.FileHeader) {
	return testutil.MultipartFile(t, constants.FormFieldVideo,
		"boats.mp4", constants.MediaTypeMP4, []byte("fake mp4 bytes"))
}

func TestVideoUploadHappyPath(t *testing.T) {
	fixture := newUploaderFixture(t, ownerID)
	file, header := mp4Upload(t)

	video, err := fixture.uploader.Run(context.Background(), file, header)
	require.Nil(t, err)
	require.NotNil(t, video)

	// The stored record holds the storage key, never a signed URL.
	stored := fixture.videos.Videos[videoID]
	require.NotNil(t, stored.VideoURL)
	assert.Regexp(t, keyPattern, *stored.VideoURL)
	assert.Equal(t, 1, fixture.videos.UpdateCalls)

	// The response holds a presigned URL instead.
	require.NotNil(t, video.VideoURL)
	assert.NotEqual(t, *stored.VideoURL, *video.VideoURL)
	assert.Contains(t, *video.VideoURL, "X-Amz-Expires=900")

	// The processed fast-start file went to the object store with the
	// original content type.
	require.Len(t, fixture.objects.Uploads, 1)
	assert.Equal(t, constants.MediaTypeMP4, fixture.objects.ContentTypes[*stored.VideoURL])
	assert.Contains(t, fixture.objects.Uploads[*stored.VideoURL], media.FastStartSuffix)

	// Both temp files are gone.
	assert.Equal(t, 0, tempFileCount(t, fixture.uploader.Config.IngestTempDir))
}

func TestVideoUploadNotFound(t *testing.T) {
	fixture := newUploaderFixture(t, ownerID)
	fixture.uploader.VideoID = "no-such-video"
	file, header := mp4Upload(t)

	_, err := fixture.uploader.Run(context.Background(), file, header)
	require.NotNil(t, err)
	apiErr := &common.APIError{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, 0, fixture.videos.UpdateCalls)
	assert.Equal(t, 0, tempFileCount(t, fixture.uploader.Config.IngestTempDir))
}

func TestVideoUploadForbidden(t *testing.T) {
	fixture := newUploaderFixture(t, "some-other-user")
	file, header := mp4Upload(t)

	_, err := fixture.uploader.Run(context.Background(), file, header)
	require.NotNil(t, err)
	apiErr := &common.APIError{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Status)

	// No temp file persisted, no record mutation.
	assert.Equal(t, 0, fixture.videos.UpdateCalls)
	assert.Equal(t, 0, fixture.inspector.Calls)
	assert.Equal(t, 0, tempFileCount(t, fixture.uploader.Config.IngestTempDir))
}

func TestVideoUploadWrongContentType(t *testing.T) {
	fixture := newUploaderFixture(t, ownerID)
	file, header := testutil.MultipartFile(t, constants.FormFieldVideo,
		"boats.png", "image/png", []byte("png bytes"))

	_, err := fixture.uploader.Run(context.Background(), file, header)
	require.NotNil(t, err)
	apiErr := &common.APIError{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, 0, tempFileCount(t, fixture.uploader.Config.IngestTempDir))
}

// Oversize uploads are rejected on the declared size alone, before
// any temp file is written.
func TestVideoUploadOversize(t *testing.T) {
	fixture := newUploaderFixture(t, ownerID)
	header := &multipart.FileHeader{
		Filename: "huge.mp4",
		Size:     constants.MaxVideoUploadSize + 1,
		Header: textproto.MIMEHeader{
			"Content-Type": []string{constants.MediaTypeMP4},
		},
	}

	_, err := fixture.uploader.Run(context.Background(), nil, header)
	require.NotNil(t, err)
	apiErr := &common.APIError{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, 0, tempFileCount(t, fixture.uploader.Config.IngestTempDir))
}

func TestVideoUploadInspectionFailure(t *testing.T) {
	fixture := newUploaderFixture(t, ownerID)
	fixture.inspector.Err = &media.InspectionError{
		Err:    errors.New("exit status 1"),
		Output: "moov atom not found",
	}
	file, header := mp4Upload(t)

	_, err := fixture.uploader.Run(context.Background(), file, header)
	require.NotNil(t, err)
	inspErr := &media.InspectionError{}
	require.True(t, errors.As(err, &inspErr))

	// No upload, no record mutation, temp files cleaned up.
	assert.Empty(t, fixture.objects.Uploads)
	assert.Equal(t, 0, fixture.videos.UpdateCalls)
	assert.Equal(t, 0, tempFileCount(t, fixture.uploader.Config.IngestTempDir))
}

func TestVideoUploadRepackagingFailure(t *testing.T) {
	fixture := newUploaderFixture(t, ownerID)
	fixture.repackager.Err = &media.RepackagingError{
		Err:    errors.New("exit status 1"),
		Output: "could not write output file",
	}
	file, header := mp4Upload(t)

	_, err := fixture.uploader.Run(context.Background(), file, header)
	require.NotNil(t, err)
	repErr := &media.RepackagingError{}
	require.True(t, errors.As(err, &repErr))

	// The unprocessed original must never be uploaded in place of the
	// fast-start variant.
	assert.Empty(t, fixture.objects.Uploads)
	assert.Equal(t, 0, fixture.videos.UpdateCalls)
	assert.Equal(t, 0, tempFileCount(t, fixture.uploader.Config.IngestTempDir))
}

func TestVideoUploadStorageFailure(t *testing.T) {
	fixture := newUploaderFixture(t, ownerID)
	fixture.objects.UploadErr = errors.New("connection refused")
	file, header := mp4Upload(t)

	_, err := fixture.uploader.Run(context.Background(), file, header)
	require.NotNil(t, err)
	assert.Equal(t, 0, fixture.videos.UpdateCalls)
	assert.Equal(t, 0, tempFileCount(t, fixture.uploader.Config.IngestTempDir))
}
