package walker_test

import (
	"testing"

	"github.com/stegoscope/mp3scope/internal/walker"
	"github.com/stretchr/testify/require"
)

func frameBytes(padding bool) []byte {
	b3 := byte(0x64)
	if padding {
		return []byte{0xFF, 0xFB, 0x92, b3}
	}
	return []byte{0xFF, 0xFB, 0x90, b3}
}

func TestWalk_SingleFrame(t *testing.T) {
	header := frameBytes(false)
	buf := make([]byte, 417)
	copy(buf, header)

	records := walker.Walk(buf, walker.Options{})
	require.Len(t, records, 1)
	require.Equal(t, 0, records[0].Position)
	require.Equal(t, 417, records[0].Length)
	require.False(t, records[0].Awkward)
}

func TestWalk_TwoFramesBackToBack(t *testing.T) {
	f1 := make([]byte, 417)
	copy(f1, frameBytes(false))
	f2 := make([]byte, 417)
	copy(f2, frameBytes(false))
	buf := append(f1, f2...)

	records := walker.Walk(buf, walker.Options{})
	require.Len(t, records, 2)
	require.Equal(t, 0, records[0].Position)
	require.Equal(t, 417, records[1].Position)
}

func TestWalk_ResyncsPastGarbage(t *testing.T) {
	garbage := []byte{0x00, 0x01, 0x02}
	frame := make([]byte, 417)
	copy(frame, frameBytes(false))
	buf := append(garbage, frame...)

	records := walker.Walk(buf, walker.Options{})
	require.True(t, records[0].Awkward)
	require.Equal(t, 0, records[0].Position)

	var gotFrame bool
	for _, r := range records {
		if !r.Awkward && r.Header.BitRate == 128 {
			gotFrame = true
		}
	}
	require.True(t, gotFrame)
}

func TestWalk_ProgressCallbackInvoked(t *testing.T) {
	buf := make([]byte, 417)
	copy(buf, frameBytes(false))

	var calls int
	var lastOffset int
	walker.Walk(buf, walker.Options{OnProgress: func(offset, total, bitRate int, mpegVersion float64) {
		calls++
		lastOffset = offset
	}})

	require.Greater(t, calls, 0)
	require.Equal(t, 417, lastOffset)
}

func TestWalk_EmptyInputProducesNoRecords(t *testing.T) {
	records := walker.Walk(nil, walker.Options{})
	require.Empty(t, records)
}

func TestWalk_CrcPresentFrameCapturesHeaderGap(t *testing.T) {
	// Same header as frameBytes(false) but with the protection bit
	// cleared (CRC present): 0xFB -> 0xFA.
	buf := make([]byte, 417)
	copy(buf, []byte{0xFF, 0xFA, 0x90, 0x64, 0x12, 0x34})

	records := walker.Walk(buf, walker.Options{})
	require.Len(t, records, 1)
	require.False(t, records[0].Awkward)
	require.Equal(t, []byte{0x12, 0x34}, records[0].HeaderGap)
}

func TestWalk_CrcAbsentFrameHasNoHeaderGap(t *testing.T) {
	buf := make([]byte, 417)
	copy(buf, frameBytes(false))

	records := walker.Walk(buf, walker.Options{})
	require.Len(t, records, 1)
	require.Empty(t, records[0].HeaderGap)
}
