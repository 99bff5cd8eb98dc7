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

// Package signature flags byte patterns left behind by known MP3
// steganography tools. These are heuristics, not proof: a match means
// a frame looks like output from a specific embedding tool, not that a
// payload was recovered.
package signature

import (
	"bytes"

	"github.com/stegoscope/mp3scope/internal/mp3frame"
	"github.com/stegoscope/mp3scope/internal/walker"
)

const (
	MP3StegoDefectivePayloadEnding = "mp3stego_defective_payload_ending"
	StegonautHeader                = "stegonaut_header"
	MP3StegzTrace                  = "mp3stegz_trace"
	MP3StegoConstantBitrate        = "mp3stego_constant_bitrate"
)

// PerFrame returns the signature names that match a single frame in
// isolation. frameIndex is the frame's position in the walked stream
// (0-based); it matters because stegonaut_header only ever matches the
// very first frame. regionLength is the size of the region the walker
// scanned (the file minus any ID3v2 container and ID3v1 trailer),
// needed to detect a frame whose declared size runs past the end of
// that region.
func PerFrame(frameIndex int, rec walker.Record, regionLength int) []string {
	if rec.Awkward {
		return nil
	}
	var found []string

	if isDefectivePayloadEnding(rec, regionLength) {
		found = append(found, MP3StegoDefectivePayloadEnding)
	}
	if frameIndex == 0 && isStegonautHeader(rec) {
		found = append(found, StegonautHeader)
	}
	if hasStegzTrace(rec) {
		found = append(found, MP3StegzTrace)
	}

	return found
}

// isDefectivePayloadEnding matches MP3Stego's tendency to truncate the
// final frame's declared length past the end of the file.
func isDefectivePayloadEnding(rec walker.Record, regionLength int) bool {
	return rec.Position+rec.Header.FrameSizeBytes > regionLength
}

// isStegonautHeader matches Stegonaut's marker: private, copyright,
// and original all set with the CCITJ17 emphasis curve, a combination
// essentially no real encoder ever produces.
func isStegonautHeader(rec walker.Record) bool {
	h := rec.Header
	return h.Private && h.Copyright && h.Original && h.Emphasis == mp3frame.EmphasisCCITJ17
}

// hasStegzTrace matches mp3stegz's fixed "XXXX" marker at a constant
// offset into a frame's main data.
func hasStegzTrace(rec walker.Record) bool {
	if len(rec.MainData) < 19 {
		return false
	}
	return bytes.Equal(rec.MainData[15:19], []byte("XXXX"))
}

// Global returns signature names that can only be determined by
// looking at every frame together, currently just
// mp3stego_constant_bitrate (present when every non-awkward frame
// shares the same bitrate, which free-form VBR encoders essentially
// never produce).
func Global(records []walker.Record) []string {
	var minRate, maxRate int
	seen := false
	for _, r := range records {
		if r.Awkward {
			continue
		}
		if !seen {
			minRate, maxRate = r.Header.BitRate, r.Header.BitRate
			seen = true
			continue
		}
		if r.Header.BitRate < minRate {
			minRate = r.Header.BitRate
		}
		if r.Header.BitRate > maxRate {
			maxRate = r.Header.BitRate
		}
	}
	if seen && minRate == maxRate {
		return []string{MP3StegoConstantBitrate}
	}
	return nil
}
