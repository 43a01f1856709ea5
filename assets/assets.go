// Package assets derives collision-resistant filenames for uploaded
// media and maps between those filenames, local paths under the
// assets root, and the public URLs we serve them from.
package assets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tubecast/video-services/constants"
)

// ExtensionForMediaType returns the file extension for the given MIME
// type. "image/png" yields ".png". Anything that doesn't split into
// exactly two parts on "/" yields the generic fallback extension.
func ExtensionForMediaType(mediaType string) string {
	parts := strings.Split(mediaType, "/")
	if len(parts) != 2 {
		return constants.ExtensionFallback
	}
	return "." + parts[1]
}

// NewFilename returns a new random filename for an asset of the given
// media type. The name is 32 random bytes, hex-encoded, so concurrent
// uploads will not collide on disk or in the object store.
func NewFilename(mediaType string) (string, error) {
	randBytes := make([]byte, 32)
	_, err := rand.Read(randBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(randBytes) + ExtensionForMediaType(mediaType), nil
}

// Resolver does pure path and URL composition against the configured
// assets root and server port. It performs no I/O.
type Resolver struct {
	AssetsRoot string
	Port       int
}

func NewResolver(assetsRoot string, port int) *Resolver {
	return &Resolver{
		AssetsRoot: assetsRoot,
		Port:       port,
	}
}

// LocalPath returns the path to filename under the assets root.
func (r *Resolver) LocalPath(filename string) string {
	return filepath.Join(r.AssetsRoot, filename)
}

// PublicURL returns the URL at which this server serves filename.
func (r *Resolver) PublicURL(filename string) string {
	return fmt.Sprintf("http://localhost:%d/assets/%s", r.Port, filename)
}
