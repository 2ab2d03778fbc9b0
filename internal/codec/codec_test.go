package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sss/pkg/sss"
)

func TestHexToBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"plain", "00ff10", []byte{0x00, 0xff, 0x10}},
		{"prefixed", "0xABcd", []byte{0xab, 0xcd}},
		{"upper prefix", "0XAB", []byte{0xab}},
		{"whitespace", "  0a0b \n", []byte{0x0a, 0x0b}},
		{"empty", "", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToBytes(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexToBytesMalformed(t *testing.T) {
	for _, in := range []string{"abc", "0x1", "zz", "0xgg00", "12 34"} {
		_, err := HexToBytes(in)
		assert.ErrorIs(t, err, sss.ErrMalformedHex, "input %q", in)
	}
}

func TestBytesToHex(t *testing.T) {
	assert.Equal(t, "000a0fff", BytesToHex([]byte{0x00, 0x0a, 0x0f, 0xff}))
	assert.Equal(t, "", BytesToHex(nil))
}

func TestFixed32(t *testing.T) {
	short := TextToFixed32("abc")
	require.Len(t, short, 32)
	assert.Equal(t, []byte("abc"), short[:3])
	assert.Equal(t, make([]byte, 29), short[3:])

	long := TextToFixed32("this string is definitely longer than thirty-two bytes")
	require.Len(t, long, 32)
	assert.Equal(t, []byte("this string is definitely longer"), long)

	fromHex, err := HexToFixed32("0x0102")
	require.NoError(t, err)
	require.Len(t, fromHex, 32)
	assert.Equal(t, byte(0x01), fromHex[0])
	assert.Equal(t, byte(0x02), fromHex[1])

	tooLong, err := HexToFixed32(BytesToHex(bytes.Repeat([]byte{0x11}, 40)))
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0x11}, 32), tooLong)
}

func TestPaddingDeterminism(t *testing.T) {
	assert.Equal(t, "abc", BytesToDisplayText(TextToFixed32("abc")))
	assert.Equal(t, "비밀", BytesToDisplayText(TextToFixed32("비밀")))
	assert.Equal(t, "", BytesToDisplayText(make([]byte, 32)))
}

func TestBytesToDisplayTextFallsBackToHex(t *testing.T) {
	b := []byte{0xff, 0xfe, 0x00}
	assert.Equal(t, "fffe00", BytesToDisplayText(b))
}

func TestDecodeSecret(t *testing.T) {
	const secretHex = "a9f1b4e8c2d7a1b3bce478f0d84f211ea1fe5d246b707df733fc7a5f21e2da43"

	b, err := DecodeSecret(secretHex, EncodingHex)
	require.NoError(t, err)
	assert.Equal(t, secretHex, BytesToHex(b))

	b, err = DecodeSecret("hello", EncodingText)
	require.NoError(t, err)
	assert.Equal(t, "hello", BytesToDisplayText(b))

	_, err = DecodeSecret("xyz", EncodingHex)
	assert.ErrorIs(t, err, sss.ErrMalformedHex)
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("TEXT")
	require.NoError(t, err)
	assert.Equal(t, EncodingText, enc)

	enc, err = ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, EncodingHex, enc)

	_, err = ParseEncoding("base64")
	assert.Error(t, err)
}

func FuzzHexRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0xde, 0xad, 0xbe, 0xef})
	f.Add(bytes.Repeat([]byte{0xff}, 64))

	f.Fuzz(func(t *testing.T, data []byte) {
		got, err := HexToBytes(BytesToHex(data))
		if err != nil {
			t.Fatalf("round trip failed: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("round trip mismatch: %x != %x", got, data)
		}
	})
}

func FuzzHexToFixed32(f *testing.F) {
	f.Add("0x00")
	f.Add("abc")
	f.Add("not hex")

	f.Fuzz(func(t *testing.T, text string) {
		b, err := HexToFixed32(text)
		if err != nil {
			return
		}
		if len(b) != 32 {
			t.Fatalf("expected 32 bytes, got %d", len(b))
		}
	})
}
