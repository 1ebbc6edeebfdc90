// Package escpos builds command byte streams for ESC/POS thermal printers.
package escpos

// Command fragments shared by the thermal print path.
const (
	// DotWidth is the printable width of the 58mm head.
	DotWidth = 384
	// BandRows is how many raster rows are sent per GS v 0 block.
	BandRows = 24
	// MaxChunk caps a single serial write so the printer buffer never
	// overruns mid-band.
	MaxChunk = 4096
)

// Init resets the printer and configures it for raster output: ESC @,
// international charset 0, codepage 0, line spacing 24 dots.
func Init() []byte {
	return []byte{
		0x1B, 0x40, // ESC @
		0x1B, 0x52, 0x00, // ESC R 0
		0x1B, 0x74, 0x00, // ESC t 0
		0x1B, 0x33, 0x18, // ESC 3 24
	}
}

// Cut feeds past the tear bar and performs a full cut (GS V B 0).
func Cut() []byte {
	return append(FeedLines(4), 0x1D, 0x56, 0x42, 0x00)
}

// CutFallback is the legacy ESC i cut some clone boards need when GS V
// is ignored.
func CutFallback() []byte {
	return []byte{0x1B, 0x69}
}

// FeedLines emits ESC d n, chunked because n is a single byte.
func FeedLines(n int) []byte {
	var out []byte
	for n > 0 {
		step := n
		if step > 255 {
			step = 255
		}
		out = append(out, 0x1B, 0x64, byte(step))
		n -= step
	}
	return out
}

// SanitizeASCII maps text onto the printer's 7-bit charset, replacing
// anything outside the printable range with '?'. Only LF passes through
// as control; the raster path renders full unicode. Used by the text
// fallback ticket only.
func SanitizeASCII(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			out = append(out, byte(r))
		case r >= 0x20 && r <= 0x7E:
			out = append(out, byte(r))
		default:
			out = append(out, '?')
		}
	}
	return out
}
