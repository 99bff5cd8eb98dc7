// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package mp3frame decodes the 4-byte MPEG audio frame header into a
// typed record, and preserves its raw bitstring for reconstruction.
package mp3frame

import (
	"fmt"

	"github.com/stegoscope/mp3scope/internal/bitio"
	"github.com/stegoscope/mp3scope/internal/mp3err"
)

// ChannelMode identifies the stereo/mono arrangement of a frame.
type ChannelMode int

const (
	Stereo ChannelMode = iota
	JointStereo
	DualChannel
	Mono
)

func (m ChannelMode) String() string {
	switch m {
	case Stereo:
		return "Stereo"
	case JointStereo:
		return "JointStereo"
	case DualChannel:
		return "DualChannel"
	case Mono:
		return "Mono"
	default:
		return "Unknown"
	}
}

// ModeExtension refines JointStereo framing; it is NONE for every other
// channel mode.
type ModeExtension int

const (
	IntensityOffMSOff ModeExtension = iota
	IntensityOnMSOff
	IntensityOffMSOn
	IntensityOnMSOn
	ModeExtNone
)

func (e ModeExtension) String() string {
	switch e {
	case IntensityOffMSOff:
		return "IntensityOffMSOff"
	case IntensityOnMSOff:
		return "IntensityOnMSOff"
	case IntensityOffMSOn:
		return "IntensityOffMSOn"
	case IntensityOnMSOn:
		return "IntensityOnMSOn"
	default:
		return "NONE"
	}
}

// Emphasis identifies the de-emphasis curve applied during encoding.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisMS5015
	EmphasisReserved
	EmphasisCCITJ17
)

func (e Emphasis) String() string {
	switch e {
	case EmphasisNone:
		return "NONE"
	case EmphasisMS5015:
		return "MS5015"
	case EmphasisReserved:
		return "Reserved"
	case EmphasisCCITJ17:
		return "CCITJ17"
	default:
		return "NONE"
	}
}

// Header is the decoded form of a 4-byte MPEG audio frame header,
// per spec section 3.
type Header struct {
	MPEGVersion    float64 // 1, 2, or 2.5
	Layer          int     // 1, 2, or 3
	CrcAbsent      bool
	BitRate        int // kbps
	SamplingRate   int // Hz
	Padding        bool
	Private        bool
	ChannelMode    ChannelMode
	ModeExtension  ModeExtension
	Copyright      bool
	Original       bool
	Emphasis       Emphasis
	Channels       int
	SamplesPerFrame int
	FrameSizeBytes int

	// Bitstring is the raw 4 bytes, space-separated 8-bit groups, e.g.
	// "11111111 11111011 10010000 01100100".
	Bitstring string
}

// bitrateTableV1 (MPEG-1) and bitrateTableV2 (MPEG-2/2.5) map a layer
// to a 16-entry kbps table; a 0 entry at index 0 means "free"
// (unsupported here), at index 15 means invalid.
var bitrateTableV1 = map[int][16]int{
	1: {0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
	2: {0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
	3: {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
}

var bitrateTableV2 = map[int][16]int{
	1: {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
	2: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
	3: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
}

var samplingRateTable = map[float64][4]int{
	1:   {44100, 48000, 32000, 0},
	2:   {22050, 24000, 16000, 0},
	2.5: {11025, 12000, 8000, 0},
}

// Decode parses the 4 bytes at the front of buf as an MPEG audio frame
// header. buf must be at least 4 bytes long. Returns mp3err.ErrInvalidHeader
// for a missing sync word or any reserved/invalid field value.
func Decode(buf []byte) (Header, error) {
	if len(buf) < 4 {
		return Header{}, fmt.Errorf("mp3frame: need 4 bytes, got %d: %w", len(buf), mp3err.ErrInvalidHeader)
	}

	r := bitio.NewReader(buf[:4])

	sync, _ := r.Read(11)
	if sync != 0x7FF {
		return Header{}, fmt.Errorf("mp3frame: sync word not found: %w", mp3err.ErrInvalidHeader)
	}

	versionBits, _ := r.Read(2)
	version, ok := decodeVersion(versionBits)
	if !ok {
		return Header{}, fmt.Errorf("mp3frame: reserved MPEG version: %w", mp3err.ErrInvalidHeader)
	}

	layerBits, _ := r.Read(2)
	layer, ok := decodeLayer(layerBits)
	if !ok {
		return Header{}, fmt.Errorf("mp3frame: reserved layer: %w", mp3err.ErrInvalidHeader)
	}

	crcBit, _ := r.Read(1)

	rateIdx, _ := r.Read(4)
	bitRate, ok := decodeBitRate(version, layer, int(rateIdx))
	if !ok {
		return Header{}, fmt.Errorf("mp3frame: invalid/free bitrate index %d: %w", rateIdx, mp3err.ErrInvalidHeader)
	}

	srIdx, _ := r.Read(2)
	if srIdx == 3 {
		return Header{}, fmt.Errorf("mp3frame: reserved sampling rate: %w", mp3err.ErrInvalidHeader)
	}
	samplingRate := samplingRateTable[version][srIdx]

	paddingBit, _ := r.Read(1)
	privateBit, _ := r.Read(1)

	modeBits, _ := r.Read(2)
	mode := ChannelMode(modeBits)

	extBits, _ := r.Read(2)
	modeExt := ModeExtNone
	if mode == JointStereo {
		modeExt = ModeExtension(extBits)
	}

	copyrightBit, _ := r.Read(1)
	originalBit, _ := r.Read(1)

	emphBits, _ := r.Read(2)
	if emphBits == 2 {
		return Header{}, fmt.Errorf("mp3frame: reserved emphasis: %w", mp3err.ErrInvalidHeader)
	}

	h := Header{
		MPEGVersion:   version,
		Layer:         layer,
		CrcAbsent:     crcBit == 1,
		BitRate:       bitRate,
		SamplingRate:  samplingRate,
		Padding:       paddingBit == 1,
		Private:       privateBit == 1,
		ChannelMode:   mode,
		ModeExtension: modeExt,
		Copyright:     copyrightBit == 1,
		Original:      originalBit == 1,
		Emphasis:      Emphasis(emphBits),
	}

	if mode == Mono {
		h.Channels = 1
	} else {
		h.Channels = 2
	}

	h.SamplesPerFrame = samplesPerFrame(version, layer)
	h.FrameSizeBytes = frameSizeBytes(h.SamplesPerFrame, h.BitRate, h.SamplingRate, h.Padding)
	h.Bitstring = bitstring(buf[:4])

	return h, nil
}

func decodeVersion(bits uint32) (float64, bool) {
	switch bits {
	case 0b00:
		return 2.5, true
	case 0b10:
		return 2, true
	case 0b11:
		return 1, true
	default: // 0b01 reserved
		return 0, false
	}
}

func decodeLayer(bits uint32) (int, bool) {
	switch bits {
	case 0b01:
		return 3, true
	case 0b10:
		return 2, true
	case 0b11:
		return 1, true
	default: // 0b00 reserved
		return 0, false
	}
}

func decodeBitRate(version float64, layer int, idx int) (int, bool) {
	if idx == 0 || idx == 15 {
		return 0, false
	}
	var table [16]int
	if version == 1 {
		table = bitrateTableV1[layer]
	} else {
		table = bitrateTableV2[layer]
	}
	v := table[idx]
	if v == 0 {
		return 0, false
	}
	return v, true
}

func samplesPerFrame(version float64, layer int) int {
	switch layer {
	case 1:
		return 384
	case 2:
		return 1152
	case 3:
		if version == 1 {
			return 1152
		}
		return 576
	}
	return 0
}

// frameSizeBytes implements spec section 3's derived formula:
// floor((samples_per_frame/8 * bit_rate*1000) / sampling_rate) + padding.
func frameSizeBytes(samplesPerFrame, bitRateKbps, samplingRate int, padding bool) int {
	n := (samplesPerFrame / 8) * (bitRateKbps * 1000)
	size := n / samplingRate
	if padding {
		size++
	}
	return size
}

// bitstring renders buf as space-separated 8-bit groups, e.g. for
// []byte{0xFF, 0xFB} -> "11111111 11111011".
func bitstring(buf []byte) string {
	out := make([]byte, 0, len(buf)*9)
	for i, b := range buf {
		if i > 0 {
			out = append(out, ' ')
		}
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<uint(bit)) != 0 {
				out = append(out, '1')
			} else {
				out = append(out, '0')
			}
		}
	}
	return string(out)
}

// BitstringToBytes parses a space-separated 8-bit-group bitstring back
// into raw bytes, the inverse of bitstring. Used by the reconstructor.
func BitstringToBytes(s string) ([]byte, error) {
	groups := splitBitstringGroups(s)
	out := make([]byte, 0, len(groups))
	for _, g := range groups {
		if len(g) != 8 {
			return nil, fmt.Errorf("mp3frame: bitstring group %q is not 8 bits: %w", g, mp3err.ErrMalformed)
		}
		var b byte
		for _, c := range g {
			b <<= 1
			switch c {
			case '1':
				b |= 1
			case '0':
			default:
				return nil, fmt.Errorf("mp3frame: bitstring group %q has non-binary digit: %w", g, mp3err.ErrMalformed)
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func splitBitstringGroups(s string) []string {
	var groups []string
	var cur []byte
	for _, r := range s {
		if r == ' ' {
			if len(cur) > 0 {
				groups = append(groups, string(cur))
				cur = cur[:0]
			}
			continue
		}
		cur = append(cur, byte(r))
	}
	if len(cur) > 0 {
		groups = append(groups, string(cur))
	}
	return groups
}
