package reconstruct_test

import (
	"testing"

	"github.com/stegoscope/mp3scope/internal/mp3err"
	"github.com/stegoscope/mp3scope/internal/reconstruct"
	"github.com/stegoscope/mp3scope/internal/report"
	"github.com/stretchr/testify/require"
)

func TestFromArtifact_SingleAwkwardFrame(t *testing.T) {
	a := report.Artifact{
		Frames: []report.Frame{
			{Awkward: true, Raw: report.EncodeRaw([]byte{0x00, 0x01, 0x02}, report.EncodingHex)},
		},
	}
	out, err := reconstruct.FromArtifact(a)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0x02}, out)
}

func TestFromArtifact_HeaderSideInfoMainData(t *testing.T) {
	headerBits := "11111111 11111011 10010000 01100100"
	a := report.Artifact{
		Frames: []report.Frame{
			{
				Header:   &report.FrameHeader{Raw: headerBits},
				SideInfo: &report.SideInfo{Raw: report.EncodeRaw([]byte{0xAA, 0xBB}, report.EncodingHex)},
				MainData: report.EncodeRaw([]byte{0xCC, 0xDD}, report.EncodingByteLiteral),
			},
		},
	}
	out, err := reconstruct.FromArtifact(a)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFB, 0x90, 0x64, 0xAA, 0xBB, 0xCC, 0xDD}, out)
}

func TestFromArtifact_HeaderGapIsReplayedBetweenHeaderAndSideInfo(t *testing.T) {
	headerBits := "11111111 11111010 10010000 01100100"
	a := report.Artifact{
		Frames: []report.Frame{
			{
				Header:    &report.FrameHeader{Raw: headerBits},
				HeaderGap: report.EncodeRaw([]byte{0x12, 0x34}, report.EncodingHex),
				SideInfo:  &report.SideInfo{Raw: report.EncodeRaw([]byte{0xAA, 0xBB}, report.EncodingHex)},
			},
		},
	}
	out, err := reconstruct.FromArtifact(a)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFA, 0x90, 0x64, 0x12, 0x34, 0xAA, 0xBB}, out)
}

func TestFromArtifact_MissingHeaderIsError(t *testing.T) {
	a := report.Artifact{
		Frames: []report.Frame{{}},
	}
	_, err := reconstruct.FromArtifact(a)
	require.ErrorIs(t, err, mp3err.ErrMissingRawData)
}

func TestFromArtifact_ID3v2AndID3v1Wrapping(t *testing.T) {
	a := report.Artifact{
		ID3v2: &report.ID3v2{Raw: report.EncodeRaw([]byte("ID3TAG"), report.EncodingHex)},
		ID3v1: &report.ID3v1{Raw: report.EncodeRaw([]byte("TAGEND"), report.EncodingHex)},
	}
	out, err := reconstruct.FromArtifact(a)
	require.NoError(t, err)
	require.Equal(t, append([]byte("ID3TAG"), []byte("TAGEND")...), out)
}
