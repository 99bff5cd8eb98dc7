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

// Package sideinfo decodes Layer III side information: the per-granule,
// per-channel bit allocation data that immediately follows the frame
// header (and optional CRC), at the offset fixed by Offset.
package sideinfo

import (
	"fmt"

	"github.com/stegoscope/mp3scope/internal/bitio"
	"github.com/stegoscope/mp3scope/internal/mp3err"
)

// Channel holds one granule/channel's bit-allocation fields.
type Channel struct {
	Part23Length      int
	BigValues         int
	GlobalGain        int
	ScalefacCompress  int
	WindowSwitching   bool
	BlockType         int // valid only if WindowSwitching
	MixedBlockFlag    bool
	TableSelect       [3]int // only [0],[1] valid if WindowSwitching
	SubblockGain      [3]int // only valid if WindowSwitching
	Region0Count      int    // only valid if !WindowSwitching
	Region1Count      int    // only valid if !WindowSwitching
	Preflag           bool   // MPEG-1 only
	ScalefacScale     bool
	Count1TableSelect bool

	// Slen1, Slen2 are the scale factor band bit widths derived from
	// ScalefacCompress, per spec section 4.3's table (MPEG-1) or the
	// LSF annex formula (MPEG-2/2.5).
	Slen1 int
	Slen2 int
}

// Granule is one granule's channels; MPEG-2/2.5 frames have exactly
// one granule, MPEG-1 frames have two.
type Granule struct {
	Channels []Channel
}

// SideInfo is the fully decoded side information block for one frame.
type SideInfo struct {
	MainDataBegin int
	PrivateBits   int
	Scfsi         [][4]bool // per channel, MPEG-1 only; empty for MPEG-2/2.5
	Granules      []Granule

	// SizeBytes is how many bytes of the frame this side info occupies.
	SizeBytes int
}

// Offset returns the byte offset, relative to the start of the frame
// header, where side information begins. legacy reproduces the
// original tool's inverted offset selection; the corrected mapping
// (the MPEG standard's own convention) is used otherwise.
func Offset(crcAbsent bool, legacy bool) int {
	if legacy {
		if crcAbsent {
			return 6
		}
		return 4
	}
	if crcAbsent {
		return 4
	}
	return 6
}

// SizeBytes returns the side information size in bytes for a given
// MPEG version and channel count, per the Layer III specification.
func SizeBytes(mpegVersion float64, channels int) int {
	if mpegVersion == 1 {
		if channels == 1 {
			return 17
		}
		return 32
	}
	if channels == 1 {
		return 9
	}
	return 17
}

// Decode parses the side information block starting at the front of
// buf. mpegVersion and channels select the MPEG-1 vs MPEG-2/2.5 layout.
// buf must be at least SizeBytes(mpegVersion, channels) long.
func Decode(buf []byte, mpegVersion float64, channels int) (SideInfo, error) {
	need := SizeBytes(mpegVersion, channels)
	if len(buf) < need {
		return SideInfo{}, fmt.Errorf("sideinfo: need %d bytes, got %d: %w", need, len(buf), mp3err.ErrTruncatedSide)
	}

	r := bitio.NewReader(buf[:need])
	si := SideInfo{SizeBytes: need}

	isV1 := mpegVersion == 1
	numGranules := 1
	if isV1 {
		numGranules = 2
	}

	if isV1 {
		v, err := r.Read(9)
		if err != nil {
			return SideInfo{}, wrapTruncated(err)
		}
		si.MainDataBegin = int(v)

		privBits := 3
		if channels == 1 {
			privBits = 5
		}
		v, err = r.Read(privBits)
		if err != nil {
			return SideInfo{}, wrapTruncated(err)
		}
		si.PrivateBits = int(v)

		si.Scfsi = make([][4]bool, channels)
		for ch := 0; ch < channels; ch++ {
			for band := 0; band < 4; band++ {
				bit, err := r.Read(1)
				if err != nil {
					return SideInfo{}, wrapTruncated(err)
				}
				si.Scfsi[ch][band] = bit == 1
			}
		}
	} else {
		v, err := r.Read(8)
		if err != nil {
			return SideInfo{}, wrapTruncated(err)
		}
		si.MainDataBegin = int(v)

		privBits := 1
		if channels != 1 {
			privBits = 2
		}
		v, err = r.Read(privBits)
		if err != nil {
			return SideInfo{}, wrapTruncated(err)
		}
		si.PrivateBits = int(v)
	}

	si.Granules = make([]Granule, numGranules)
	for g := 0; g < numGranules; g++ {
		gran := Granule{Channels: make([]Channel, channels)}
		for ch := 0; ch < channels; ch++ {
			c, err := decodeChannel(r, isV1)
			if err != nil {
				return SideInfo{}, err
			}
			gran.Channels[ch] = c
		}
		si.Granules[g] = gran
	}

	return si, nil
}

func decodeChannel(r *bitio.Reader, isV1 bool) (Channel, error) {
	var c Channel

	v, err := r.Read(12)
	if err != nil {
		return c, wrapTruncated(err)
	}
	c.Part23Length = int(v)

	v, err = r.Read(9)
	if err != nil {
		return c, wrapTruncated(err)
	}
	c.BigValues = int(v)

	v, err = r.Read(8)
	if err != nil {
		return c, wrapTruncated(err)
	}
	c.GlobalGain = int(v)

	compressBits := 4
	if !isV1 {
		compressBits = 9
	}
	v, err = r.Read(compressBits)
	if err != nil {
		return c, wrapTruncated(err)
	}
	c.ScalefacCompress = int(v)

	wsf, err := r.Read(1)
	if err != nil {
		return c, wrapTruncated(err)
	}
	c.WindowSwitching = wsf == 1

	if c.WindowSwitching {
		v, err = r.Read(2)
		if err != nil {
			return c, wrapTruncated(err)
		}
		c.BlockType = int(v)

		mbf, err := r.Read(1)
		if err != nil {
			return c, wrapTruncated(err)
		}
		c.MixedBlockFlag = mbf == 1

		for i := 0; i < 2; i++ {
			v, err = r.Read(5)
			if err != nil {
				return c, wrapTruncated(err)
			}
			c.TableSelect[i] = int(v)
		}
		for i := 0; i < 3; i++ {
			v, err = r.Read(3)
			if err != nil {
				return c, wrapTruncated(err)
			}
			c.SubblockGain[i] = int(v)
		}
	} else {
		for i := 0; i < 3; i++ {
			v, err = r.Read(5)
			if err != nil {
				return c, wrapTruncated(err)
			}
			c.TableSelect[i] = int(v)
		}
		v, err = r.Read(4)
		if err != nil {
			return c, wrapTruncated(err)
		}
		c.Region0Count = int(v)

		v, err = r.Read(3)
		if err != nil {
			return c, wrapTruncated(err)
		}
		c.Region1Count = int(v)
	}

	if isV1 {
		pf, err := r.Read(1)
		if err != nil {
			return c, wrapTruncated(err)
		}
		c.Preflag = pf == 1
		c.Slen1, c.Slen2 = scalefacSlenV1(c.ScalefacCompress)
	} else {
		c.Slen1, c.Slen2 = scalefacSlenLSF(c.ScalefacCompress)
	}

	ss, err := r.Read(1)
	if err != nil {
		return c, wrapTruncated(err)
	}
	c.ScalefacScale = ss == 1

	ct, err := r.Read(1)
	if err != nil {
		return c, wrapTruncated(err)
	}
	c.Count1TableSelect = ct == 1

	return c, nil
}

func wrapTruncated(err error) error {
	return fmt.Errorf("sideinfo: %w: %w", err, mp3err.ErrTruncatedSide)
}

// scalefacSlenV1Table is the literal MPEG-1 scalefac_compress -> (slen1,
// slen2) table (ISO/IEC 11172-3 table B.8), indexed by the raw 4-bit
// scalefac_compress value.
var scalefacSlenV1Table = [16][2]int{
	{0, 0}, {0, 1}, {0, 2}, {0, 3}, {3, 0}, {1, 1}, {1, 2}, {1, 3},
	{2, 1}, {2, 2}, {2, 3}, {3, 1}, {3, 2}, {3, 3}, {4, 2}, {4, 3},
}

// scalefacSlenV1 resolves (slen1, slen2) for a MPEG-1 4-bit
// scalefac_compress value per the table in spec section 4.3.
func scalefacSlenV1(compress int) (slen1, slen2 int) {
	e := scalefacSlenV1Table[compress]
	return e[0], e[1]
}

// scalefacSlenLSF resolves (slen1, slen2) for a MPEG-2/2.5 9-bit LSF
// scalefac_compress value, per ISO/IEC 13818-3 Annex B's extended
// scale factor compression table. The split is the same for every
// block type; block type only changes how many bands each width covers.
func scalefacSlenLSF(compress int) (slen1, slen2 int) {
	switch {
	case compress < 400:
		slen1 = (compress >> 4) / 5
		slen2 = (compress >> 4) % 5
	case compress < 500:
		c := compress - 400
		slen1 = (c >> 2) / 5
		slen2 = (c >> 2) % 5
	default:
		c := compress - 500
		slen1 = c / 3
		slen2 = c % 3
	}
	return slen1, slen2
}
