package constants

const (
	ExtensionFallback    = ".bin"
	FormFieldThumbnail   = "thumbnail"
	FormFieldVideo       = "video"
	MediaTypeImagePrefix = "image/"
	MediaTypeMP4         = "video/mp4"
	OrientationLandscape = "landscape"
	OrientationOther     = "other"
	OrientationPortrait  = "portrait"
)

// Upload size ceilings. Videos may be up to 1 GiB, thumbnails up to
// 10 MiB. Requests above these limits are rejected before any bytes
// are written to disk.
const (
	MaxThumbnailUploadSize = int64(10 << 20)
	MaxVideoUploadSize     = int64(1 << 30)
)

var Orientations []string = []string{
	OrientationLandscape,
	OrientationPortrait,
	OrientationOther,
}
