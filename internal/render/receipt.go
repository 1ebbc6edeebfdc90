package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"order_kiosk/internal/models"
)

// Options carries everything the receipt layout needs besides the order.
type Options struct {
	StoreName string
	Footer    string
	DateTime  string
	Logo      image.Image
	Face      font.Face
	Width     int
}

// Receipt renders the full customer receipt as a 1bpp-friendly grayscale
// image, cropped to its content height.
func Receipt(order models.Order, opts Options) (*image.Gray, error) {
	if opts.Face == nil {
		return nil, ErrFontRequired
	}
	width := opts.Width
	if width <= 0 {
		width = 384
	}

	c := newCanvas(width, opts.Face)

	if opts.Logo != nil {
		c.drawLogo(opts.Logo)
		c.space(8)
	}
	if opts.StoreName != "" {
		c.center(opts.StoreName)
		c.space(4)
	}
	c.separator()
	c.center("Order No.")
	c.centerScaled(order.OrderNo, 2)
	c.separator()

	for _, item := range order.Items {
		if item.Kind == "ADJUST" {
			c.leftRight(item.Name, fmt.Sprintf("%+dyen", item.LineTotal()))
			continue
		}
		c.leftRight(item.Name, fmt.Sprintf("x%d  %dyen", maxQty(item.Qty), item.LineTotal()))
	}
	c.separator()
	c.leftRight("TOTAL", fmt.Sprintf("%dyen", order.Total()))
	c.space(8)
	if opts.DateTime != "" {
		c.center(opts.DateTime)
	}
	if opts.Footer != "" {
		c.space(4)
		c.center(opts.Footer)
	}
	c.space(12)

	return c.crop(), nil
}

func maxQty(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

// canvas accumulates drawing top to bottom on an oversized page.
type canvas struct {
	img        *image.Gray
	face       font.Face
	width      int
	y          int
	lineHeight int
	margin     int
}

func newCanvas(width int, face font.Face) *canvas {
	img := image.NewGray(image.Rect(0, 0, width, 4096))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	metrics := face.Metrics()
	return &canvas{
		img:        img,
		face:       face,
		width:      width,
		lineHeight: metrics.Height.Ceil() + 4,
		margin:     4,
	}
}

func (c *canvas) usable() int { return c.width - 2*c.margin }

func (c *canvas) space(px int) { c.y += px }

func (c *canvas) drawString(s string, x int) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.Black,
		Face: c.face,
		Dot:  fixed.P(x, c.y+c.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
	c.y += c.lineHeight
}

func (c *canvas) left(s string) {
	for _, line := range wrapLine(c.face, s, c.usable()) {
		c.drawString(line, c.margin)
	}
}

func (c *canvas) center(s string) {
	for _, line := range wrapLine(c.face, s, c.usable()) {
		x := (c.width - textWidth(c.face, line)) / 2
		if x < c.margin {
			x = c.margin
		}
		c.drawString(line, x)
	}
}

// leftRight draws a name flush left and a price flush right. When the
// name would collide with the price it wraps above it.
func (c *canvas) leftRight(name, price string) {
	priceW := textWidth(c.face, price)
	nameMax := c.usable() - priceW - 8
	if nameMax < c.usable()/3 {
		nameMax = c.usable() / 3
	}
	lines := wrapLine(c.face, name, nameMax)
	for i, line := range lines {
		if i == len(lines)-1 {
			priceY := c.y
			c.drawString(line, c.margin)
			d := font.Drawer{
				Dst:  c.img,
				Src:  image.Black,
				Face: c.face,
				Dot:  fixed.P(c.width-c.margin-priceW, priceY+c.face.Metrics().Ascent.Ceil()),
			}
			d.DrawString(price)
		} else {
			c.drawString(line, c.margin)
		}
	}
}

func (c *canvas) separator() {
	c.space(4)
	for x := c.margin; x < c.width-c.margin; x++ {
		c.img.SetGray(x, c.y, color.Gray{})
		c.img.SetGray(x, c.y+1, color.Gray{})
	}
	c.space(8)
}

// centerScaled renders text at an integer multiple of the face size by
// nearest-neighbour upscaling, which keeps thermal output crisp.
func (c *canvas) centerScaled(s string, scale int) {
	if scale <= 1 {
		c.center(s)
		return
	}
	w := textWidth(c.face, s)
	h := c.face.Metrics().Height.Ceil()
	tmp := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(tmp, tmp.Bounds(), image.White, image.Point{}, draw.Src)
	d := font.Drawer{
		Dst:  tmp,
		Src:  image.Black,
		Face: c.face,
		Dot:  fixed.P(0, c.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	sw, sh := w*scale, h*scale
	if sw > c.usable() {
		sw = c.usable()
	}
	x := (c.width - sw) / 2
	dst := image.Rect(x, c.y, x+sw, c.y+sh)
	xdraw.NearestNeighbor.Scale(c.img, dst, tmp, tmp.Bounds(), xdraw.Src, nil)
	c.y += sh + 4
}

func (c *canvas) drawLogo(logo image.Image) {
	lb := logo.Bounds()
	if lb.Dx() == 0 || lb.Dy() == 0 {
		return
	}
	w := lb.Dx()
	h := lb.Dy()
	if w > c.usable() {
		h = h * c.usable() / w
		w = c.usable()
	}
	x := (c.width - w) / 2
	dst := image.Rect(x, c.y, x+w, c.y+h)
	xdraw.CatmullRom.Scale(c.img, dst, logo, lb, xdraw.Over, nil)
	c.y += h
}

// crop trims the page to what was drawn.
func (c *canvas) crop() *image.Gray {
	h := c.y
	if h < 1 {
		h = 1
	}
	if h > c.img.Bounds().Dy() {
		h = c.img.Bounds().Dy()
	}
	out := image.NewGray(image.Rect(0, 0, c.width, h))
	draw.Draw(out, out.Bounds(), c.img, image.Point{}, draw.Src)
	return out
}
