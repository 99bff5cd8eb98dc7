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

// Package walker steps through the MPEG frame stream between the
// ID3v2 container and the ID3v1 trailer, decoding each frame header
// and side information in turn and resynchronizing after corrupt or
// truncated frames instead of aborting the whole scan.
package walker

import (
	"github.com/stegoscope/mp3scope/internal/mp3frame"
	"github.com/stegoscope/mp3scope/internal/sideinfo"
)

// State names the walker's current position in its resync state
// machine.
type State int

const (
	Synced State = iota
	Resync
	Terminated
)

// Record is one walked frame: its position, decoded header, decoded
// side information, the main data bytes that follow side info up to
// the next frame (all bytes after the header when a truncated frame
// is too short to hold side info), and (when the frame's sync word could not be found
// at the expected position) the raw bytes skipped while resyncing.
type Record struct {
	Position   int
	Length     int
	Header     mp3frame.Header
	HeaderGap  []byte // bytes between the 4-byte header and the side info start (the CRC, when present)
	SideInfo   sideinfo.SideInfo
	SideInfoPosition int
	SideInfoRaw      []byte
	MainData   []byte
	Awkward    bool
	AwkwardRaw []byte
}

// ProgressFunc is called after each frame (or resync skip) with the
// walker's current byte offset into the stream, so a caller can drive
// a progress bar without the walker depending on any UI package.
// bitRate and mpegVersion describe the frame just walked and are zero
// for an awkward (resync) skip.
type ProgressFunc func(offset, total, bitRate int, mpegVersion float64)

// Options configures a Walk.
type Options struct {
	LegacySideInfoOffsets bool
	OnProgress            ProgressFunc
}

// Walk scans buf (the portion of the file between the end of any
// ID3v2 container and the start of any ID3v1 trailer) for MPEG Layer
// III frames, returning one Record per frame found.
func Walk(buf []byte, opts Options) []Record {
	var records []Record
	pos := 0
	total := len(buf)
	state := Synced

	for state != Terminated && pos < total {
		if pos+4 > total {
			state = Terminated
			break
		}

		header, err := mp3frame.Decode(buf[pos:])
		if err != nil {
			skip, found := resync(buf, pos+1)
			if !found {
				state = Terminated
				break
			}
			records = append(records, Record{
				Position:   pos,
				Length:     skip - pos,
				Awkward:    true,
				AwkwardRaw: buf[pos:skip],
			})
			pos = skip
			state = Resync
			report(opts.OnProgress, pos, total, 0, 0)
			continue
		}
		state = Synced

		frameEnd := pos + header.FrameSizeBytes
		if frameEnd > total {
			frameEnd = total
		}

		sideOffset := pos + sideinfo.Offset(header.CrcAbsent, opts.LegacySideInfoOffsets)
		sideSize := sideinfo.SizeBytes(header.MPEGVersion, header.Channels)

		rec := Record{
			Position: pos,
			Length:   frameEnd - pos,
			Header:   header,
		}

		if sideOffset+sideSize <= frameEnd && sideOffset >= pos {
			if gapStart := pos + 4; sideOffset > gapStart {
				rec.HeaderGap = buf[gapStart:sideOffset]
			}
			if si, err := sideinfo.Decode(buf[sideOffset:sideOffset+sideSize], header.MPEGVersion, header.Channels); err == nil {
				rec.SideInfo = si
				rec.SideInfoPosition = sideOffset
				rec.SideInfoRaw = buf[sideOffset : sideOffset+sideSize]
				mainStart := sideOffset + sideSize
				if mainStart < frameEnd {
					rec.MainData = buf[mainStart:frameEnd]
				}
			}
		} else if pos+4 < frameEnd {
			// Side info does not fit (a truncated trailing frame): keep
			// every byte after the header as main data.
			rec.MainData = buf[pos+4 : frameEnd]
		}

		records = append(records, rec)
		pos = frameEnd
		report(opts.OnProgress, pos, total, header.BitRate, header.MPEGVersion)
	}

	return records
}

// resync scans buf starting at from for the next 0xFF sync byte,
// mirroring the original decoder's awkward-byte recovery: advance one
// byte at a time until a candidate sync byte is found or the buffer is
// exhausted.
func resync(buf []byte, from int) (pos int, found bool) {
	for i := from; i < len(buf); i++ {
		if buf[i] == 0xFF {
			return i, true
		}
	}
	return len(buf), false
}

func report(f ProgressFunc, offset, total, bitRate int, mpegVersion float64) {
	if f != nil {
		f(offset, total, bitRate, mpegVersion)
	}
}
