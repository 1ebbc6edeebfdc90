package render

import (
	"fmt"
	"image"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

// QR renders the trailer QR code centred on a full-width white strip so
// it can be appended to the receipt raster as extra bands.
func QR(content string, width int) (*image.Gray, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	size := width / 2
	if size < 64 {
		size = 64
	}
	src := code.Image(size)

	strip := image.NewGray(image.Rect(0, 0, width, size+16))
	draw.Draw(strip, strip.Bounds(), image.White, image.Point{}, draw.Src)
	x := (width - src.Bounds().Dx()) / 2
	draw.Draw(strip, image.Rect(x, 8, x+src.Bounds().Dx(), 8+src.Bounds().Dy()), src, src.Bounds().Min, draw.Src)
	return strip, nil
}
