package escpos

import (
	"image"
	"image/color"
	"time"
)

// Band is one GS v 0 raster block: the 8-byte header plus packed pixel
// data for at most BandRows rows.
type Band struct {
	Rows int
	Data []byte
}

// EncodeRaster packs an image into print bands of BandRows rows each.
// Pixels with luminance below 128 print black. The image is clamped to
// DotWidth columns.
func EncodeRaster(img image.Image) []Band {
	bounds := img.Bounds()
	width := bounds.Dx()
	if width > DotWidth {
		width = DotWidth
	}
	height := bounds.Dy()
	widthBytes := (width + 7) / 8

	var bands []Band
	for top := 0; top < height; top += BandRows {
		rows := height - top
		if rows > BandRows {
			rows = BandRows
		}
		data := make([]byte, 0, 8+widthBytes*rows)
		// GS v 0 m xL xH yL yH
		data = append(data,
			0x1D, 0x76, 0x30, 0x00,
			byte(widthBytes&0xFF), byte(widthBytes>>8),
			byte(rows&0xFF), byte(rows>>8),
		)
		for y := 0; y < rows; y++ {
			rowStart := len(data)
			data = append(data, make([]byte, widthBytes)...)
			for x := 0; x < width; x++ {
				if !isBlack(img.At(bounds.Min.X+x, bounds.Min.Y+top+y)) {
					continue
				}
				data[rowStart+x/8] |= 0x80 >> uint(x%8)
			}
		}
		bands = append(bands, Band{Rows: rows, Data: data})
	}
	return bands
}

func isBlack(c color.Color) bool {
	gray := color.GrayModel.Convert(c).(color.Gray)
	return gray.Y < 128
}

// Chunks splits the band payload into serial-sized writes.
func (b Band) Chunks() [][]byte {
	var chunks [][]byte
	for off := 0; off < len(b.Data); off += MaxChunk {
		end := off + MaxChunk
		if end > len(b.Data) {
			end = len(b.Data)
		}
		chunks = append(chunks, b.Data[off:end])
	}
	return chunks
}

// Pacing is how long to wait after sending the band so the head keeps up.
func (b Band) Pacing() time.Duration {
	return 10*time.Millisecond + time.Duration(b.Rows)*time.Millisecond
}
