package output

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/Sumatoshi-tech/benchratio/pkg/report"
)

const (
	jsonIndent = "  "

	// Floats outside [expLow, expHigh) switch to exponent notation.
	expLow  = 1e-4
	expHigh = 1e16

	floatBits = 64
	hexDigits = "0123456789abcdef"

	firstPrintable = 0x20
	lastPrintable  = 0x7e
)

// writeJSON emits the tree with two-space indentation, "," at line ends and
// ": " between key and value. No trailing newline is written.
func writeJSON(w io.Writer, root *object) error {
	bw := bufio.NewWriter(w)

	encodeValue(bw, root, 0)

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}

func encodeValue(bw *bufio.Writer, value any, depth int) {
	switch v := value.(type) {
	case *object:
		encodeObject(bw, v, depth)
	case report.Measurement:
		bw.WriteString(strconv.FormatInt(int64(v), 10))
	case float64:
		bw.WriteString(FormatFloat(v))
	}
}

func encodeObject(bw *bufio.Writer, obj *object, depth int) {
	if len(obj.members) == 0 {
		bw.WriteString("{}")

		return
	}

	inner := strings.Repeat(jsonIndent, depth+1)

	bw.WriteString("{\n")

	for i, m := range obj.members {
		bw.WriteString(inner)
		bw.WriteString(QuoteString(m.key))
		bw.WriteString(": ")
		encodeValue(bw, m.value, depth+1)

		if i < len(obj.members)-1 {
			bw.WriteByte(',')
		}

		bw.WriteByte('\n')
	}

	bw.WriteString(strings.Repeat(jsonIndent, depth))
	bw.WriteByte('}')
}

// FormatFloat renders f in shortest round-trip form. Integral values keep a
// ".0" suffix and very small or large magnitudes use exponent notation, so
// 2 becomes "2.0" and 0.00001 becomes "1e-05".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < expLow || abs >= expHigh) {
		return strconv.FormatFloat(f, 'e', -1, floatBits)
	}

	s := strconv.FormatFloat(f, 'f', -1, floatBits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// QuoteString renders s as an ASCII-only JSON string literal.
func QuoteString(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r >= firstPrintable && r <= lastPrintable {
				b.WriteRune(r)

				continue
			}

			if r > 0xffff {
				hi, lo := utf16.EncodeRune(r)
				writeUnicodeEscape(&b, hi)
				writeUnicodeEscape(&b, lo)

				continue
			}

			writeUnicodeEscape(&b, r)
		}
	}

	b.WriteByte('"')

	return b.String()
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	b.WriteString(`\u`)

	for shift := 12; shift >= 0; shift -= 4 {
		b.WriteByte(hexDigits[(r>>shift)&0xf])
	}
}
