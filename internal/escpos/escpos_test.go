package escpos

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSequence(t *testing.T) {
	init := Init()
	assert.Equal(t, []byte{0x1B, 0x40}, init[:2], "must start with ESC @")
	assert.Contains(t, string(init), string([]byte{0x1B, 0x33, 0x18}), "line spacing set to 24 dots")
}

func TestCutEndsWithFullCut(t *testing.T) {
	cut := Cut()
	assert.Equal(t, []byte{0x1D, 0x56, 0x42, 0x00}, cut[len(cut)-4:])
}

func TestFeedLinesChunksAt255(t *testing.T) {
	out := FeedLines(300)
	require.Len(t, out, 6)
	assert.Equal(t, []byte{0x1B, 0x64, 255, 0x1B, 0x64, 45}, out)
}

func TestSanitizeASCII(t *testing.T) {
	got := SanitizeASCII("Héllo\n日本 123")
	assert.Equal(t, "H?llo\n?? 123", string(got))
}

func TestSanitizeASCIIOnlyLFSurvives(t *testing.T) {
	got := SanitizeASCII("a\tb\r\nc")
	assert.Equal(t, "a?b?\nc", string(got))
}

func TestEncodeRasterBandLayout(t *testing.T) {
	// All-zero gray is black, so every payload bit must be set.
	img := image.NewGray(image.Rect(0, 0, 384, 60))
	bands := EncodeRaster(img)

	require.Len(t, bands, 3)
	assert.Equal(t, 24, bands[0].Rows)
	assert.Equal(t, 24, bands[1].Rows)
	assert.Equal(t, 12, bands[2].Rows)

	widthBytes := 384 / 8
	first := bands[0]
	require.Len(t, first.Data, 8+widthBytes*24)
	assert.Equal(t, []byte{0x1D, 0x76, 0x30, 0x00}, first.Data[:4])
	assert.Equal(t, byte(widthBytes), first.Data[4])
	assert.Equal(t, byte(0), first.Data[5])
	assert.Equal(t, byte(24), first.Data[6])
	assert.Equal(t, byte(0), first.Data[7])
	for i, b := range first.Data[8:] {
		require.Equalf(t, byte(0xFF), b, "payload byte %d", i)
	}

	assert.Equal(t, byte(12), bands[2].Data[6])
}

func TestEncodeRasterWhiteIsEmpty(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 1))
	for x := 0; x < 8; x++ {
		img.Pix[x] = 0xFF
	}
	bands := EncodeRaster(img)
	require.Len(t, bands, 1)
	assert.Equal(t, byte(0x00), bands[0].Data[8])
}

func TestEncodeRasterMSBFirst(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 1))
	for x := 0; x < 8; x++ {
		img.Pix[x] = 0xFF
	}
	img.Pix[0] = 0 // leftmost pixel black
	bands := EncodeRaster(img)
	assert.Equal(t, byte(0x80), bands[0].Data[8])
}

func TestBandChunks(t *testing.T) {
	b := Band{Rows: 24, Data: make([]byte, 9000)}
	chunks := b.Chunks()
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], MaxChunk)
	assert.Len(t, chunks[2], 9000-2*MaxChunk)
}

func TestBandPacing(t *testing.T) {
	assert.Equal(t, 34*time.Millisecond, Band{Rows: 24}.Pacing())
}
