package preprocess

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func at(t *Tensor, x, y int) [3]float32 {
	i := (y*ImageSize + x) * Channels
	return [3]float32{t.Data[i], t.Data[i+1], t.Data[i+2]}
}

func TestPreprocess_Shape(t *testing.T) {
	sizes := []image.Point{{1, 1}, {224, 224}, {640, 480}, {3, 1000}, {225, 223}}
	for _, s := range sizes {
		tensor, err := Preprocess(solid(s.X, s.Y, color.RGBA{1, 2, 3, 255}))
		if err != nil {
			t.Fatalf("%v: %v", s, err)
		}
		if len(tensor.Data) != 1*ImageSize*ImageSize*Channels {
			t.Fatalf("%v: got %d values", s, len(tensor.Data))
		}
		shape := tensor.Shape()
		want := []int64{1, 224, 224, 3}
		for i := range want {
			if shape[i] != want[i] {
				t.Fatalf("%v: shape %v", s, shape)
			}
		}
	}
}

func TestPreprocess_RawChannelValues(t *testing.T) {
	tensor, err := Preprocess(solid(10, 20, color.RGBA{255, 128, 0, 255}))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []image.Point{{0, 0}, {100, 57}, {223, 223}} {
		if got := at(tensor, p.X, p.Y); got != [3]float32{255, 128, 0} {
			t.Fatalf("pixel %v = %v", p, got)
		}
	}
}

func TestPreprocess_NonUniformScale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{200, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 0, 200, 255})

	tensor, err := Preprocess(img)
	if err != nil {
		t.Fatal(err)
	}
	if got := at(tensor, 0, 223); got != [3]float32{200, 0, 0} {
		t.Fatalf("left edge = %v", got)
	}
	if got := at(tensor, 223, 0); got != [3]float32{0, 0, 200} {
		t.Fatalf("right edge = %v", got)
	}
}

func TestPreprocess_ZeroArea(t *testing.T) {
	for _, img := range []image.Image{nil, image.NewRGBA(image.Rect(0, 0, 0, 10)), image.NewGray(image.Rect(5, 5, 5, 5))} {
		if _, err := Preprocess(img); !errors.Is(err, ErrInvalidImage) {
			t.Fatalf("expected ErrInvalidImage, got %v", err)
		}
	}
}

func TestFromPixels(t *testing.T) {
	pix := []byte{10, 20, 30, 40, 50, 60}
	tensor, err := FromPixels(pix, 2, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := at(tensor, 0, 0); got != [3]float32{10, 20, 30} {
		t.Fatalf("left = %v", got)
	}
	if got := at(tensor, 223, 223); got != [3]float32{40, 50, 60} {
		t.Fatalf("right = %v", got)
	}
}

func TestFromPixels_Invalid(t *testing.T) {
	cases := []struct {
		name          string
		pix           []byte
		w, h, channel int
	}{
		{"four channels", make([]byte, 16), 2, 2, 4},
		{"grayscale", make([]byte, 4), 2, 2, 1},
		{"zero width", nil, 0, 2, 3},
		{"short buffer", make([]byte, 5), 2, 1, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromPixels(tc.pix, tc.w, tc.h, tc.channel); !errors.Is(err, ErrInvalidImage) {
				t.Fatalf("expected ErrInvalidImage, got %v", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(4, 3, color.RGBA{9, 8, 7, 255})); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("bounds = %v", b)
	}

	if _, err := Decode(strings.NewReader("definitely not an image")); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}
