// Package codec converts between hex text, UTF-8 text and the fixed 32-byte
// scalar form used throughout the split/combine workflow.
//
// Padding and truncation to 32 bytes are lossy: text longer than 32 bytes is
// cut, and trailing zero bytes are indistinguishable from padding when the
// value is turned back into text.
package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/smallyu/go-sss/pkg/sss"
)

// Encoding selects how a textual secret is interpreted.
type Encoding int

const (
	EncodingHex Encoding = iota
	EncodingText
)

func (e Encoding) String() string {
	switch e {
	case EncodingHex:
		return "hex"
	case EncodingText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseEncoding resolves "hex" or "text".
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hex", "":
		return EncodingHex, nil
	case "text", "utf8", "utf-8":
		return EncodingText, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", s)
	}
}

// HexToBytes decodes hex text, accepting an optional 0x prefix and either case.
func HexToBytes(text string) ([]byte, error) {
	clean := strings.ToLower(strings.TrimSpace(text))
	clean = strings.TrimPrefix(clean, "0x")
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", sss.ErrMalformedHex, len(clean))
	}
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sss.ErrMalformedHex, err)
	}
	return b, nil
}

// BytesToHex encodes b as lowercase hex, two digits per byte.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// Fixed32 truncates b to 32 bytes or right-pads it with zeros.
func Fixed32(b []byte) []byte {
	out := make([]byte, sss.ScalarSize)
	copy(out, b)
	return out
}

// TextToFixed32 UTF-8 encodes text into exactly 32 bytes.
func TextToFixed32(text string) []byte {
	return Fixed32([]byte(text))
}

// HexToFixed32 decodes hex text into exactly 32 bytes.
func HexToFixed32(text string) ([]byte, error) {
	b, err := HexToBytes(text)
	if err != nil {
		return nil, err
	}
	return Fixed32(b), nil
}

// BytesToDisplayText strips trailing zero padding and decodes the rest as
// UTF-8. Values that are not valid UTF-8 are shown as hex instead.
func BytesToDisplayText(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	if utf8.Valid(b[:end]) {
		return string(b[:end])
	}
	return BytesToHex(b)
}

// DecodeSecret turns user input into a 32-byte secret.
func DecodeSecret(text string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingHex:
		return HexToFixed32(text)
	case EncodingText:
		return TextToFixed32(text), nil
	default:
		return nil, fmt.Errorf("unknown encoding %d", enc)
	}
}
