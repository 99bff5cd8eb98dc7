package signature_test

import (
	"testing"

	"github.com/stegoscope/mp3scope/internal/mp3frame"
	"github.com/stegoscope/mp3scope/internal/signature"
	"github.com/stegoscope/mp3scope/internal/walker"
	"github.com/stretchr/testify/require"
)

func TestPerFrame_DefectivePayloadEnding(t *testing.T) {
	rec := walker.Record{
		Position: 90,
		Header:   mp3frame.Header{FrameSizeBytes: 417},
	}
	// region is only 100 bytes long; this frame's declared size runs
	// 407 bytes past the end of it.
	found := signature.PerFrame(1, rec, 100)
	require.Contains(t, found, signature.MP3StegoDefectivePayloadEnding)
}

func TestPerFrame_CompleteTrailingFrameHasNoSignature(t *testing.T) {
	rec := walker.Record{
		Position: 0,
		Header:   mp3frame.Header{FrameSizeBytes: 417},
	}
	found := signature.PerFrame(0, rec, 417)
	require.NotContains(t, found, signature.MP3StegoDefectivePayloadEnding)
}

func TestPerFrame_StegonautHeaderOnlyFrameZero(t *testing.T) {
	rec := walker.Record{
		Header: mp3frame.Header{
			Private:   true,
			Copyright: true,
			Original:  true,
			Emphasis:  mp3frame.EmphasisCCITJ17,
		},
	}
	require.Contains(t, signature.PerFrame(0, rec, 1000), signature.StegonautHeader)
	require.NotContains(t, signature.PerFrame(1, rec, 1000), signature.StegonautHeader)
}

func TestPerFrame_StegonautHeaderRequiresAllFourFields(t *testing.T) {
	rec := walker.Record{
		Header: mp3frame.Header{
			Private:  true,
			Original: true,
			// Copyright left false; the other three fields match.
			Emphasis: mp3frame.EmphasisCCITJ17,
		},
	}
	require.NotContains(t, signature.PerFrame(0, rec, 1000), signature.StegonautHeader)
}

func TestPerFrame_StegzTrace(t *testing.T) {
	data := make([]byte, 20)
	copy(data[15:19], []byte("XXXX"))
	rec := walker.Record{MainData: data, Header: mp3frame.Header{FrameSizeBytes: 20}}
	require.Contains(t, signature.PerFrame(2, rec, 1000), signature.MP3StegzTrace)
}

func TestPerFrame_AwkwardRecordsAreSkipped(t *testing.T) {
	rec := walker.Record{
		Awkward:  true,
		MainData: []byte{0x00, 0x01, 0x02, 0x09},
	}
	require.Empty(t, signature.PerFrame(1, rec, 1000))
}

func TestGlobal_ConstantBitrate(t *testing.T) {
	records := []walker.Record{
		{Header: mp3frame.Header{BitRate: 128}},
		{Header: mp3frame.Header{BitRate: 128}},
		{Header: mp3frame.Header{BitRate: 128}},
	}
	require.Contains(t, signature.Global(records), signature.MP3StegoConstantBitrate)
}

func TestGlobal_VariableBitrateHasNoSignature(t *testing.T) {
	records := []walker.Record{
		{Header: mp3frame.Header{BitRate: 128}},
		{Header: mp3frame.Header{BitRate: 192}},
	}
	require.NotContains(t, signature.Global(records), signature.MP3StegoConstantBitrate)
}

func TestGlobal_IgnoresAwkwardRecords(t *testing.T) {
	records := []walker.Record{
		{Awkward: true},
		{Header: mp3frame.Header{BitRate: 128}},
		{Header: mp3frame.Header{BitRate: 128}},
	}
	require.Contains(t, signature.Global(records), signature.MP3StegoConstantBitrate)
}
