package emotion

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"orato/internal/vision"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// DecodeJPEG decodes a frame once so several faces can be cropped from it.
func DecodeJPEG(data []byte) (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	return img, nil
}

// CropJPEG cuts box out of img and re-encodes it. ok is false when the box
// does not overlap the image.
func CropJPEG(img image.Image, box vision.Box) ([]byte, bool, error) {
	rect := image.Rect(int(box[0]), int(box[1]), int(box[2]), int(box[3])).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, false, nil
	}
	sub, ok := img.(subImager)
	if !ok {
		return nil, false, fmt.Errorf("crop: unsupported image type %T", img)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, sub.SubImage(rect), &jpeg.Options{Quality: 90}); err != nil {
		return nil, false, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), true, nil
}
