// Package images shrinks uploaded photos before they are stored on a record.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

// ErrTooLarge is returned when an upload exceeds the configured byte limit.
var ErrTooLarge = errors.New("image exceeds upload limit")

// Compressed is a re-encoded JPEG ready to be stored as a data URI.
type Compressed struct {
	DataURI string
	Width   int
	Height  int
	Bytes   int
}

// Compressor resizes images to fit a square bound and re-encodes them as JPEG.
type Compressor struct {
	maxDimension int
	quality      int
	maxBytes     int64
}

// NewCompressor builds a compressor. maxBytes <= 0 disables the size limit.
func NewCompressor(maxDimension, quality int, maxBytes int64) *Compressor {
	return &Compressor{maxDimension: maxDimension, quality: quality, maxBytes: maxBytes}
}

// Compress decodes JPEG, PNG or GIF input, scales it down to fit within
// maxDimension x maxDimension keeping the aspect ratio, and encodes a JPEG.
// Images already inside the bound are re-encoded without scaling.
func (c *Compressor) Compress(r io.Reader) (Compressed, error) {
	if c.maxBytes > 0 {
		r = io.LimitReader(r, c.maxBytes+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return Compressed{}, fmt.Errorf("read image: %w", err)
	}
	if c.maxBytes > 0 && int64(len(raw)) > c.maxBytes {
		return Compressed{}, ErrTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Compressed{}, fmt.Errorf("decode image: %w", err)
	}

	width, height := FitWithin(src.Bounds().Dx(), src.Bounds().Dy(), c.maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: c.quality}); err != nil {
		return Compressed{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return Compressed{
		DataURI: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   width,
		Height:  height,
		Bytes:   buf.Len(),
	}, nil
}

// FitWithin scales width and height down to fit inside a max x max square.
func FitWithin(width, height, max int) (int, int) {
	if width <= max && height <= max {
		return width, height
	}
	if width >= height {
		h := height * max / width
		if h < 1 {
			h = 1
		}
		return max, h
	}
	w := width * max / height
	if w < 1 {
		w = 1
	}
	return w, max
}
