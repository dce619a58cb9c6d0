// Package imaging turns arbitrary raster bytes into fixed-size luminance
// buffers suitable for pairwise comparison.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultSize is the edge length of a normalized buffer.
const DefaultSize = 100

// SupportedTypes lists the raster encodings the normalizer decodes.
var SupportedTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/bmp",
	"image/tiff",
	"image/webp",
}

// Normalization failure reasons.
const (
	ReasonEmpty       = "empty_input"
	ReasonUnsupported = "unsupported_encoding"
	ReasonCorrupt     = "corrupt_image"
	ReasonBadSize     = "invalid_target_size"
)

// NormalizationError reports input that cannot be turned into a buffer.
type NormalizationError struct {
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize image: %s: %v", e.Reason, e.Err)
	}
	return "normalize image: " + e.Reason
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// IsNormalizationError reports whether err is or wraps a NormalizationError.
func IsNormalizationError(err error) bool {
	var ne *NormalizationError
	return errors.As(err, &ne)
}

// DetectType returns the sniffed MIME type of data and whether it is a
// supported raster encoding.
func DetectType(data []byte) (string, bool) {
	mt := mimetype.Detect(data)
	for _, t := range SupportedTypes {
		if mt.Is(t) {
			return t, true
		}
	}
	return mt.String(), false
}

// Normalize decodes data, resizes it to size x size and converts it to
// 8-bit luminance. The result is exactly size*size bytes in row-major order.
func Normalize(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, &NormalizationError{Reason: ReasonBadSize, Err: fmt.Errorf("size %d", size)}
	}
	if len(data) == 0 {
		return nil, &NormalizationError{Reason: ReasonEmpty}
	}

	contentType, ok := DetectType(data)
	if !ok {
		return nil, &NormalizationError{Reason: ReasonUnsupported, Err: fmt.Errorf("content type %s", contentType)}
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &NormalizationError{Reason: ReasonCorrupt, Err: err}
	}
	if src.Bounds().Empty() {
		return nil, &NormalizationError{Reason: ReasonCorrupt, Err: errors.New("image has no pixels")}
	}

	resized := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(resized, resized.Bounds(), src, src.Bounds(), draw.Src, nil)

	return luminance(resized), nil
}

// luminance converts RGBA pixels to gray using the ITU-R BT.601 weights.
func luminance(img *image.RGBA) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+3]
			r, g, bl := uint32(p[0]), uint32(p[1]), uint32(p[2])
			out = append(out, byte((19595*r+38470*g+7471*bl+1<<15)>>16))
		}
	}
	return out
}
