package id3v1_test

import (
	"testing"

	"github.com/stegoscope/mp3scope/internal/id3v1"
	"github.com/stretchr/testify/require"
)

func buildTag(title, artist, album, year, comment string, track byte, genre byte) []byte {
	buf := make([]byte, id3v1.Size)
	copy(buf[0:3], "TAG")
	copy(buf[3:33], padTo(title, 30))
	copy(buf[33:63], padTo(artist, 30))
	copy(buf[63:93], padTo(album, 30))
	copy(buf[93:97], padTo(year, 4))
	copy(buf[97:125], padTo(comment, 28))
	buf[125] = 0
	buf[126] = track
	buf[127] = genre
	return buf
}

func padTo(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func TestDetect(t *testing.T) {
	tag := buildTag("T", "A", "Al", "2020", "c", 3, 17)
	require.True(t, id3v1.Detect(tag))
	require.False(t, id3v1.Detect([]byte("not a tag at all")))
}

func TestDecode_ID3v11TrackNumber(t *testing.T) {
	raw := buildTag("My Song", "My Artist", "My Album", "1999", "comment", 5, 17)
	tag := id3v1.Decode(raw)

	require.Equal(t, "My Song", tag.Title)
	require.Equal(t, "My Artist", tag.Artist)
	require.Equal(t, "My Album", tag.Album)
	require.Equal(t, "1999", tag.Year)
	require.Equal(t, "comment", tag.Comment)
	require.True(t, tag.HasTrack)
	require.Equal(t, 5, tag.Track)
	require.Equal(t, "Rock", tag.GenreName)
}

func TestDecode_PlainID3v1NoTrack(t *testing.T) {
	// No track only when both of the final two comment bytes are zero.
	raw := buildTag("T", "A", "Al", "2020", "a full twenty eight char", 0, 255)
	tag := id3v1.Decode(raw)

	require.False(t, tag.HasTrack)
	require.Equal(t, "None", tag.GenreName)
}

func TestDecode_NonzeroCommentTailWithZeroTrackByteStillReportsTrack(t *testing.T) {
	// Byte 125 nonzero alongside a zero byte 126 still reports a track
	// (of 0), matching the original tool's literal pair-equality check.
	raw := buildTag("T", "A", "Al", "2020", "a full twenty eight char", 0, 255)
	raw[125] = 'r'
	tag := id3v1.Decode(raw)

	require.True(t, tag.HasTrack)
	require.Equal(t, 0, tag.Track)
	require.Equal(t, "a full twenty eight char", tag.Comment)
}

func TestDecode_UnmappedGenreIsUnknown(t *testing.T) {
	raw := buildTag("T", "A", "Al", "2020", "c", 1, 200)
	tag := id3v1.Decode(raw)
	require.Equal(t, "Unknown", tag.GenreName)
}

func TestDecode_NoTagReturnsZeroValue(t *testing.T) {
	tag := id3v1.Decode([]byte{0xFF, 0xFB, 0x90, 0x64})
	require.Equal(t, "", tag.Title)
	require.Nil(t, tag.Raw)
}
