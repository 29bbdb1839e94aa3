package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const DefaultThumbnailSize = 320

// ImageThumbnailer renders JPEG thumbnails that fit in a square box.
type ImageThumbnailer struct {
	size int
}

func NewImageThumbnailer(size int) *ImageThumbnailer {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	return &ImageThumbnailer{size: size}
}

func (t *ImageThumbnailer) Thumbnail(data []byte) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	resized := imaging.Fit(img, t.size, t.size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
