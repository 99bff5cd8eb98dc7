package mp3frame_test

import (
	"testing"

	"github.com/stegoscope/mp3scope/internal/mp3err"
	"github.com/stegoscope/mp3scope/internal/mp3frame"
	"github.com/stretchr/testify/require"
)

func TestDecode_Scenario1(t *testing.T) {
	h, err := mp3frame.Decode([]byte{0xFF, 0xFB, 0x90, 0x64})
	require.NoError(t, err)

	require.Equal(t, 1.0, h.MPEGVersion)
	require.Equal(t, 3, h.Layer)
	require.True(t, h.CrcAbsent)
	require.Equal(t, 128, h.BitRate)
	require.Equal(t, 44100, h.SamplingRate)
	require.False(t, h.Padding)
	require.False(t, h.Private)
	require.Equal(t, mp3frame.JointStereo, h.ChannelMode)
	require.Equal(t, 2, h.Channels)
	require.Equal(t, 417, h.FrameSizeBytes)
}

func TestDecode_Scenario2_PaddingAddsOneByte(t *testing.T) {
	h, err := mp3frame.Decode([]byte{0xFF, 0xFB, 0x92, 0x64})
	require.NoError(t, err)

	require.True(t, h.Padding)
	require.Equal(t, 418, h.FrameSizeBytes)
}

func TestDecode_ReservedVersionIsInvalid(t *testing.T) {
	// sync=11111111111, version=01 (reserved)
	_, err := mp3frame.Decode([]byte{0xFF, 0xE9, 0x90, 0x64})
	require.ErrorIs(t, err, mp3err.ErrInvalidHeader)
}

func TestDecode_FreeBitrateIsInvalid(t *testing.T) {
	// bitrate index 0000 ("free") is not a supported fixed rate here
	_, err := mp3frame.Decode([]byte{0xFF, 0xFB, 0x00, 0x64})
	require.ErrorIs(t, err, mp3err.ErrInvalidHeader)
}

func TestDecode_BadBitrateIndexIsInvalid(t *testing.T) {
	// bitrate index 1111 is reserved/bad
	_, err := mp3frame.Decode([]byte{0xFF, 0xFB, 0xF0, 0x64})
	require.ErrorIs(t, err, mp3err.ErrInvalidHeader)
}

func TestDecode_ReservedSamplingRateIsInvalid(t *testing.T) {
	_, err := mp3frame.Decode([]byte{0xFF, 0xFB, 0x9E, 0x64})
	require.ErrorIs(t, err, mp3err.ErrInvalidHeader)
}

func TestDecode_TooShortIsInvalid(t *testing.T) {
	_, err := mp3frame.Decode([]byte{0xFF, 0xFB, 0x90})
	require.ErrorIs(t, err, mp3err.ErrInvalidHeader)
}

func TestDecode_MonoHasOneChannelAndNoModeExtension(t *testing.T) {
	// channel mode bits 11 = Mono, mode ext bits 00 (ignored outside joint stereo)
	h, err := mp3frame.Decode([]byte{0xFF, 0xFB, 0x90, 0xC4})
	require.NoError(t, err)
	require.Equal(t, mp3frame.Mono, h.ChannelMode)
	require.Equal(t, 1, h.Channels)
	require.Equal(t, mp3frame.ModeExtNone, h.ModeExtension)
}

func TestBitstringRoundTrip(t *testing.T) {
	raw := []byte{0xFF, 0xFB, 0x90, 0x64}
	h, err := mp3frame.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "11111111 11111011 10010000 01100100", h.Bitstring)

	back, err := mp3frame.BitstringToBytes(h.Bitstring)
	require.NoError(t, err)
	require.Equal(t, raw, back)
}
