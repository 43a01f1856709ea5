package registry

import (
	"encoding/json"
	"time"
)

// Video is the authoritative metadata record for one hosted video.
// The VideoURL field holds a storage key (e.g. "landscape/<filename>")
// while the record is at rest. It is rewritten to a presigned URL only
// in outbound API responses, never persisted that way: presigned URLs
// expire, and persisting one would silently break playback later.
type Video struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       string    `gorm:"index" json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     *string   `json:"video_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
}

func (v *Video) TableName() string {
	return "videos"
}

// VideoFromJSON creates a Video object from its JSON representation.
func VideoFromJSON(jsonData []byte) (*Video, error) {
	v := &Video{}
	err := json.Unmarshal(jsonData, v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ToJSON converts this Video to its JSON representation.
func (v *Video) ToJSON() ([]byte, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// SignedCopy returns a copy of this record with the VideoURL field
// replaced by signedURL. Use this to build API responses without
// touching the stored record.
func (v *Video) SignedCopy(signedURL string) *Video {
	signed := *v
	signed.VideoURL = &signedURL
	return &signed
}
