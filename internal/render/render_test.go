package render

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"order_kiosk/internal/models"
)

// fixedFace reports a constant advance per rune so wrap widths are exact
// regardless of which glyphs a real font carries.
type fixedFace struct {
	advance fixed.Int26_6
}

func (f fixedFace) Close() error { return nil }
func (f fixedFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return image.Rectangle{}, image.NewAlpha(image.Rect(0, 0, 1, 1)), image.Point{}, f.advance, true
}
func (f fixedFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return fixed.Rectangle26_6{}, f.advance, true
}
func (f fixedFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) { return f.advance, true }
func (f fixedFace) Kern(r0, r1 rune) fixed.Int26_6            { return 0 }
func (f fixedFace) Metrics() font.Metrics {
	return font.Metrics{Height: fixed.I(14), Ascent: fixed.I(11), Descent: fixed.I(3)}
}

func tenPx() font.Face { return fixedFace{advance: fixed.I(10)} }

func TestHasCJK(t *testing.T) {
	assert.True(t, hasCJK("唐揚げバーガー"))
	assert.True(t, hasCJK("set メニュー"))
	assert.False(t, hasCJK("plain burger"))
}

func TestWrapLatinOnSpaces(t *testing.T) {
	lines := wrapLine(tenPx(), "double cheese burger", 100)
	assert.Equal(t, []string{"double", "cheese", "burger"}, lines)
}

func TestWrapShortLineUntouched(t *testing.T) {
	lines := wrapLine(tenPx(), "cola", 100)
	assert.Equal(t, []string{"cola"}, lines)
}

func TestWrapCJKPerRune(t *testing.T) {
	lines := wrapLine(tenPx(), "唐揚げバーガー", 30)
	assert.Equal(t, []string{"唐揚げ", "バーガ", "ー"}, lines)
}

func TestWrapOverlongWordSplits(t *testing.T) {
	lines := wrapLine(tenPx(), "aaaaaaaaaaaa", 50)
	require.Len(t, lines, 3)
	for _, line := range lines[:2] {
		assert.Equal(t, 5, len(line))
	}
}

func testOrder() models.Order {
	return models.Order{
		OrderNo: "0042",
		Status:  models.OrderCreated,
		Items: []models.LineItem{
			{SKU: "M001", Name: "Classic Burger", Qty: 2, UnitPriceApplied: 800, Kind: "MAIN"},
			{SKU: "CHINCHIRO_ADJUST", Name: "Chinchiro (win)", Qty: 1, UnitPriceApplied: 300, Kind: "ADJUST"},
		},
	}
}

func TestTextTicket(t *testing.T) {
	ticket := TextTicket(testOrder(), "KDS BURGER")

	assert.Contains(t, ticket, "KDS BURGER")
	assert.Contains(t, ticket, "Order No. 0042")
	assert.Contains(t, ticket, "Classic Burger x2  1600")
	assert.Contains(t, ticket, "TOTAL: 1900 YEN")
	assert.NotContains(t, ticket, "Chinchiro", "adjust rows stay off the kitchen ticket")
	assert.Contains(t, ticket, strings.Repeat("-", 24))
}

func TestReceiptRequiresFace(t *testing.T) {
	_, err := Receipt(testOrder(), Options{})
	assert.ErrorIs(t, err, ErrFontRequired)
}

func TestReceiptDimensions(t *testing.T) {
	img, err := Receipt(testOrder(), Options{
		StoreName: "KDS BURGER",
		Footer:    "Thank you!",
		DateTime:  "2026-09-01 10:00",
		Face:      basicfont.Face7x13,
		Width:     384,
	})
	require.NoError(t, err)

	assert.Equal(t, 384, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 50)
	assert.Less(t, img.Bounds().Dy(), 4096)

	// Something must actually be drawn.
	black := 0
	for _, p := range img.Pix {
		if p < 128 {
			black++
		}
	}
	assert.Greater(t, black, 100)
}

func TestQRStripIsFullWidth(t *testing.T) {
	strip, err := QR("https://example.com/receipt", 384)
	require.NoError(t, err)
	assert.Equal(t, 384, strip.Bounds().Dx())
	assert.GreaterOrEqual(t, strip.Bounds().Dy(), 64)
}
