package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
	FontTall   = 0x01 // Double height only
)

// codePage850 is the ESC t table number for PC850 (Multilingual Latin I)
const codePage850 = 2

// DefaultWidth is the character width of 58mm paper.
const DefaultWidth = 32

// Document builds an ESC/POS byte stream for thermal printers.
// Text is encoded as PC850 so accented Portuguese prints correctly.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a new ESC/POS document with the given character width.
// Common widths: 32 for 58mm paper, 48 for 80mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = DefaultWidth
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width returns the line width in characters.
func (d *Document) Width() int {
	return d.width
}

// Init sends ESC @ (initialize printer) and selects the PC850 code page.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	d.buf.Write([]byte{ESC, 't', codePage850})
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.write(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width separator line.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "TOTAL:                 R$ 24.00"
func (d *Document) KeyValue(key, value string) *Document {
	return d.spread(key, value)
}

// ItemLine prints the product name on its own line followed by
// "qty x price" and the right-aligned subtotal, e.g.
//
//	Arroz
//	  2.0 kg x 10.00          20.00
func (d *Document) ItemLine(name, qty, unitPrice, subtotal string) *Document {
	d.Text(Truncate(name, d.width))
	return d.spread(fmt.Sprintf("  %s x %s", qty, unitPrice), subtotal)
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Reset clears the buffer and reinitializes the document.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.Init()
	return d
}

func (d *Document) spread(left, right string) *Document {
	spaces := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	d.write(left)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.write(right)
	d.buf.WriteByte(LF)
	return d
}

// write encodes s as PC850, replacing runes the code page lacks with '?'.
func (d *Document) write(s string) {
	for _, r := range s {
		b, ok := charmap.CodePage850.EncodeRune(r)
		if !ok {
			b = '?'
		}
		d.buf.WriteByte(b)
	}
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
