package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubecast/video-services/api"
	"github.com/tubecast/video-services/constants"
	"github.com/tubecast/video-services/models/common"
	"github.com/tubecast/video-services/testutil"
)

// newTestServer builds a Server whose auth and request-shape failure
// paths can run without a database or object store behind it.
func newTestServer(t *testing.T) *api.Server {
	context := &common.Context{
		Config: &common.Config{
			AssetsRoot:   t.TempDir(),
			JWTSecret:    testSecret,
			Port:         8091,
			SignedURLTTL: 15 * time.Minute,
		},
		Logger: logging.MustGetLogger("test"),
	}
	return api.NewServer(context)
}

func doRequest(server *api.Server, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.Echo().ServeHTTP(recorder, req)
	return recorder
}

func errorBody(t *testing.T, recorder *httptest.ResponseRecorder) string {
	body := map[string]string{}
	err := json.Unmarshal(recorder.Body.Bytes(), &body)
	require.Nil(t, err)
	return body["error"]
}

func TestUploadVideoNoAuthHeader(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/videos/some-id/video", nil)

	recorder := doRequest(server, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "missing Authorization header", errorBody(t, recorder))
}

func TestUploadVideoBadToken(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/videos/some-id/video", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	recorder := doRequest(server, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "invalid or expired token", errorBody(t, recorder))
}

func TestUploadVideoNotMultipart(t *testing.T) {
	server := newTestServer(t)
	token, err := api.MakeToken("user-1", testSecret, time.Hour)
	require.Nil(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/videos/some-id/video", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	recorder := doRequest(server, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "request must be multipart form data", errorBody(t, recorder))
}

func TestUploadVideoWrongFieldName(t *testing.T) {
	server := newTestServer(t)
	token, err := api.MakeToken("user-1", testSecret, time.Hour)
	require.Nil(t, err)

	body, contentType := testutil.MultipartBody(t, "movie",
		"boats.mp4", constants.MediaTypeMP4, []byte("mp4 bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/videos/some-id/video", body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	recorder := doRequest(server, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "exactly one 'video' file field is required", errorBody(t, recorder))
}

func TestUploadThumbnailNoAuthHeader(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/videos/some-id/thumbnail", nil)

	recorder := doRequest(server, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestErrorBodiesCarryNoDetail(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/videos/some-id/video", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	recorder := doRequest(server, req)
	// Internal diagnostics (signature details, file paths) stay in
	// the logs; the response carries only the taxonomy message.
	assert.NotContains(t, recorder.Body.String(), "signature")
	assert.NotContains(t, recorder.Body.String(), "/")
}
