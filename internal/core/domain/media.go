package domain

import (
	"strings"
	"time"
)

// Media is an uploaded image.
type Media struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Filename     string    `json:"filename" bson:"filename"`
	OriginalName string    `json:"originalName" bson:"original_name"`
	URL          string    `json:"url" bson:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty" bson:"thumbnail_url,omitempty"`
	MimeType     string    `json:"mimeType" bson:"mime_type"`
	Size         int64     `json:"size" bson:"size"`
	Alt          string    `json:"alt" bson:"alt"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// AllowedImageTypes maps accepted upload content types to their file extension.
var AllowedImageTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// Rasterizable reports whether a thumbnail can be rendered for the content type.
func Rasterizable(mimeType string) bool {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}
