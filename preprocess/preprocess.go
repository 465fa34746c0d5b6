// Package preprocess turns decoded photos into the fixed input tensor of the
// flower classifier.
package preprocess

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

const (
	ImageSize = 224
	Channels  = 3
)

var ErrInvalidImage = errors.New("invalid image")

// Tensor is a [1, ImageSize, ImageSize, Channels] NHWC float32 buffer holding
// raw 0..255 channel values.
type Tensor struct {
	Data []float32
}

func (t *Tensor) Shape() []int64 {
	return []int64{1, ImageSize, ImageSize, Channels}
}

// Decode reads a JPEG, PNG, WebP or AVIF image, honoring EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// Preprocess scales img to ImageSize x ImageSize, ignoring aspect ratio, with
// nearest-neighbour sampling and casts every channel to float32 unscaled.
func Preprocess(img image.Image) (*Tensor, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: zero area %dx%d", ErrInvalidImage, b.Dx(), b.Dy())
	}

	resized := imaging.Resize(img, ImageSize, ImageSize, imaging.NearestNeighbor)

	out := make([]float32, ImageSize*ImageSize*Channels)
	i := 0
	for y := range ImageSize {
		row := resized.Pix[y*resized.Stride:]
		for x := range ImageSize {
			px := row[x*4 : x*4+3]
			out[i] = float32(px[0])
			out[i+1] = float32(px[1])
			out[i+2] = float32(px[2])
			i += Channels
		}
	}
	return &Tensor{Data: out}, nil
}

// FromPixels builds a tensor from an interleaved 8-bit buffer of the given
// dimensions. Only 3-channel RGB buffers are accepted.
func FromPixels(pix []byte, width, height, channels int) (*Tensor, error) {
	if channels != Channels {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrInvalidImage, channels)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: zero area %dx%d", ErrInvalidImage, width, height)
	}
	if len(pix) < width*height*channels {
		return nil, fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrInvalidImage, len(pix), width*height*channels)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for p := range width * height {
		copy(img.Pix[p*4:p*4+3], pix[p*3:p*3+3])
		img.Pix[p*4+3] = 0xff
	}
	return Preprocess(img)
}
