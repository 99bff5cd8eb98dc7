package bitio_test

import (
	"testing"

	"github.com/stegoscope/mp3scope/internal/bitio"
	"github.com/stegoscope/mp3scope/internal/mp3err"
	"github.com/stretchr/testify/require"
)

func TestReader_SyncWord(t *testing.T) {
	r := bitio.NewReader([]byte{0xFF, 0xFB, 0x90, 0x64})

	sync, err := r.Read(11)
	require.NoError(t, err)
	require.Equal(t, uint32(0x7FF), sync)

	version, err := r.Read(2)
	require.NoError(t, err)
	require.Equal(t, uint32(0b11), version)

	layer, err := r.Read(2)
	require.NoError(t, err)
	require.Equal(t, uint32(0b01), layer)
}

func TestReader_CrossesByteBoundary(t *testing.T) {
	r := bitio.NewReader([]byte{0b10110100, 0b11000000})

	v, err := r.Read(4)
	require.NoError(t, err)
	require.Equal(t, uint32(0b1011), v)

	v, err = r.Read(8)
	require.NoError(t, err)
	require.Equal(t, uint32(0b01001100), v)
}

func TestReader_ZeroWidthReadDoesNotAdvance(t *testing.T) {
	r := bitio.NewReader([]byte{0xAB})

	v, err := r.Read(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), v)
	require.Equal(t, uint64(0), r.Pos())
}

func TestReader_PeekDoesNotAdvance(t *testing.T) {
	r := bitio.NewReader([]byte{0xFF})

	v, err := r.Peek(4)
	require.NoError(t, err)
	require.Equal(t, uint32(0xF), v)
	require.Equal(t, uint64(0), r.Pos())

	v, err = r.Read(4)
	require.NoError(t, err)
	require.Equal(t, uint32(0xF), v)
	require.Equal(t, uint64(4), r.Pos())
}

func TestReader_OutOfRange(t *testing.T) {
	r := bitio.NewReader([]byte{0xFF})

	_, err := r.Read(9)
	require.ErrorIs(t, err, mp3err.ErrOutOfRange)
}

func TestReader_AlignByte(t *testing.T) {
	r := bitio.NewReader([]byte{0xFF, 0xAB})

	_, err := r.Read(3)
	require.NoError(t, err)

	r.AlignByte()
	require.Equal(t, uint64(8), r.Pos())

	v, err := r.Read(8)
	require.NoError(t, err)
	require.Equal(t, uint32(0xAB), v)
}
