package report_test

import (
	"testing"

	"github.com/stegoscope/mp3scope/internal/report"
	"github.com/stretchr/testify/require"
)

func TestEncodeRaw_Hex(t *testing.T) {
	got := report.EncodeRaw([]byte{0xFF, 0x00, 0xAB}, report.EncodingHex)
	require.Equal(t, "ff00ab", got)
}

func TestEncodeRaw_ByteLiteral(t *testing.T) {
	got := report.EncodeRaw([]byte("Hi\x00"), report.EncodingByteLiteral)
	require.Equal(t, `b'Hi\x00'`, got)
}

func TestDecodeRaw_AutoDetectsHex(t *testing.T) {
	b, err := report.DecodeRaw("ff00ab")
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0x00, 0xAB}, b)
}

func TestDecodeRaw_AutoDetectsByteLiteral(t *testing.T) {
	b, err := report.DecodeRaw(`b'Hi\x00'`)
	require.NoError(t, err)
	require.Equal(t, []byte("Hi\x00"), b)
}

func TestRawRoundTrip_Hex(t *testing.T) {
	raw := []byte{0xFF, 0xFB, 0x90, 0x64, 0x00, 0x01}
	enc := report.EncodeRaw(raw, report.EncodingHex)
	dec, err := report.DecodeRaw(enc)
	require.NoError(t, err)
	require.Equal(t, raw, dec)
}

func TestRawRoundTrip_ByteLiteral(t *testing.T) {
	raw := []byte{0xFF, 0xFB, 0x90, 0x64, '\'', '\\', 0x0A}
	enc := report.EncodeRaw(raw, report.EncodingByteLiteral)
	dec, err := report.DecodeRaw(enc)
	require.NoError(t, err)
	require.Equal(t, raw, dec)
}
