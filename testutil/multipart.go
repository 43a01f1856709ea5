package testutil

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

// MultipartBody builds a multipart form body holding one file field
// and returns the body plus its content type, ready to feed to an
// HTTP request.
func MultipartBody(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.Nil(t, err)
	_, err = part.Write(content)
	require.Nil(t, err)
	require.Nil(t, writer.Close())
	return body, writer.FormDataContentType()
}

// MultipartFile parses a one-file form and hands back the opened file
// and its header, the way an upload handler would receive them.
func MultipartFile(t *testing.T, field, filename, contentType string, content []byte) (multipart.File, *multipart.FileHeader) {
	body, formContentType := MultipartBody(t, field, filename, contentType, content)
	_, params, err := mime.ParseMediaType(formContentType)
	require.Nil(t, err)
	reader := multipart.NewReader(body, params["boundary"])
	form, err := reader.ReadForm(32 << 20)
	require.Nil(t, err)
	require.Len(t, form.File[field], 1)
	fileHeader := form.File[field][0]
	file, err := fileHeader.Open()
	require.Nil(t, err)
	return file, fileHeader
}
