package renderer

import (
	"image"
	"image/color"
)

// PixelBuffer holds 8-bit RGB pixels in row-major order, 3 bytes per pixel,
// with row 0 at the top of the image
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a black buffer of the given size
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

// offset returns the index of the red byte of pixel (x, y)
func (pb *PixelBuffer) offset(x, y int) int {
	return (y*pb.Width + x) * 3
}

// Set writes the pixel at (x, y)
func (pb *PixelBuffer) Set(x, y int, r, g, b uint8) {
	i := pb.offset(x, y)
	pb.Pix[i] = r
	pb.Pix[i+1] = g
	pb.Pix[i+2] = b
}

// At returns the pixel at (x, y)
func (pb *PixelBuffer) At(x, y int) (r, g, b uint8) {
	i := pb.offset(x, y)
	return pb.Pix[i], pb.Pix[i+1], pb.Pix[i+2]
}

// Image converts the buffer to an opaque image for encoding
func (pb *PixelBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, pb.Width, pb.Height))
	for y := 0; y < pb.Height; y++ {
		for x := 0; x < pb.Width; x++ {
			r, g, b := pb.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}
