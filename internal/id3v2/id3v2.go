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

// Package id3v2 reads the leading ID3v2 container of an MP3 file.
//
// The container size in the 10-byte tag header is synchsafe (7 usable
// bits per byte) per the ID3v2 standard. Individual frame sizes,
// however, are read here as plain big-endian 32-bit integers rather
// than synchsafe values. This mirrors a deliberate, preserved quirk of
// the tool this package's behavior is bound to: treating frame sizes
// as synchsafe silently corrupts the frame walk on tags written by
// encoders that never synchsafe-encode them, and flipping the
// convention here would break bit-exact reconstruction of inputs
// already analyzed with the non-synchsafe assumption.
package id3v2

import (
	"fmt"
	"strconv"
	"strings"

	bogemid3v2 "github.com/bogem/id3v2"
	"github.com/stegoscope/mp3scope/internal/mp3err"
)

const headerSize = 10

// Flags are the ID3v2 header flag bits 7..4 of the flags byte, from
// Unsynchronisation (bit 7) to FooterPresent (bit 4).
type Flags struct {
	Unsynchronisation bool
	ExtendedHeader    bool
	Experimental      bool
	FooterPresent     bool
}

// Frame is one decoded ID3v2 frame: a 4-character identifier plus its
// raw payload bytes.
type Frame struct {
	ID    string
	Flags uint16
	Data  []byte

	// HumanName is a descriptive label for well-known frame IDs,
	// resolved via the ID3v2.3 common-frame table; empty when the ID
	// is not recognized.
	HumanName string

	// Text holds the decoded textual value for a curated set of
	// frequently-inspected frames (title, artist, album, ...gs);
	// empty for frames not in that set.
	Text string
}

// Tag is the fully parsed ID3v2 container.
type Tag struct {
	VersionMajor int
	VersionMinor int
	Flags        Flags
	Size         int // synchsafe-decoded size of the frames + padding, excluding header and footer
	Frames       []Frame

	// Raw is the entire container, header through the end of padding
	// (and footer, if present), exactly as it appeared in the file.
	Raw []byte

	// TotalSize is len(Raw): headerSize + Size (+10 if a footer follows).
	TotalSize int
}

// textualFrameIDs is the curated set of frames whose payload this
// package decodes as human text, matching the frames a forensic
// summary actually displays.
var textualFrameIDs = map[string]bool{
	"TPE1": true, "TPE2": true, "TCOP": true, "TPOS": true,
	"TPUB": true, "TCON": true, "TCOM": true, "TIT2": true,
	"TALB": true, "COMM": true, "TRCK": true, "TYER": true,
	"TLEN": true,
}

// Detect reports whether buf begins with an ID3v2 container.
func Detect(buf []byte) bool {
	return len(buf) >= headerSize && buf[0] == 'I' && buf[1] == 'D' && buf[2] == '3'
}

// Decode parses the ID3v2 container at the front of buf, if any. It
// returns a zero-value Tag with TotalSize 0 when no container is
// present, which is not an error.
func Decode(buf []byte) (Tag, error) {
	if !Detect(buf) {
		return Tag{}, nil
	}

	verMajor := int(buf[3])
	verMinor := int(buf[4])
	flagsByte := buf[5]

	if flagsByte&0x0F != 0 {
		return Tag{}, fmt.Errorf("id3v2: reserved flag bits set: %w", mp3err.ErrInvalidID3v2)
	}

	flags := Flags{
		Unsynchronisation: flagsByte&(1<<7) != 0,
		ExtendedHeader:    flagsByte&(1<<6) != 0,
		Experimental:      flagsByte&(1<<5) != 0,
		FooterPresent:     flagsByte&(1<<4) != 0,
	}

	size, err := decodeSynchsafe(buf[6:10])
	if err != nil {
		return Tag{}, fmt.Errorf("id3v2: %w: %w", err, mp3err.ErrInvalidID3v2)
	}

	total := headerSize + size
	if flags.FooterPresent {
		total += 10
	}
	if total > len(buf) {
		return Tag{}, fmt.Errorf("id3v2: container claims %d bytes, only %d available: %w", total, len(buf), mp3err.ErrInvalidID3v2)
	}

	tag := Tag{
		VersionMajor: verMajor,
		VersionMinor: verMinor,
		Flags:        flags,
		Size:         size,
		Raw:          buf[:total],
		TotalSize:    total,
	}

	framesEnd := headerSize + size

	pos := headerSize
	if flags.ExtendedHeader {
		if pos+4 > framesEnd {
			return Tag{}, fmt.Errorf("id3v2: extended header length exceeds tag bounds: %w", mp3err.ErrInvalidID3v2)
		}
		extSize := int(uint32(buf[pos])<<24 | uint32(buf[pos+1])<<16 | uint32(buf[pos+2])<<8 | uint32(buf[pos+3]))
		pos += 4 + extSize
	}
	for pos+10 <= framesEnd {
		id := string(buf[pos : pos+4])
		if !validFrameID(id) {
			break // padding reached
		}
		frameSize := int(uint32(buf[pos+4])<<24 | uint32(buf[pos+5])<<16 | uint32(buf[pos+6])<<8 | uint32(buf[pos+7]))
		frameFlags := uint16(buf[pos+8])<<8 | uint16(buf[pos+9])

		dataStart := pos + 10
		dataEnd := dataStart + frameSize
		if frameSize < 0 || dataEnd > framesEnd {
			return Tag{}, fmt.Errorf("id3v2: frame %q claims %d bytes past tag bounds: %w", id, frameSize, mp3err.ErrInvalidID3v2)
		}

		data := buf[dataStart:dataEnd]
		f := Frame{
			ID:        id,
			Flags:     frameFlags,
			Data:      data,
			HumanName: humanName(id),
		}
		if textualFrameIDs[id] {
			f.Text = decodeText(id, data)
		}
		tag.Frames = append(tag.Frames, f)

		pos = dataEnd
	}

	return tag, nil
}

func validFrameID(id string) bool {
	if len(id) != 4 {
		return false
	}
	for _, c := range id {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// decodeSynchsafe interprets 4 bytes as a synchsafe 28-bit integer:
// the high bit of each byte is always 0 and carries no value.
func decodeSynchsafe(b []byte) (int, error) {
	var v int
	for _, x := range b {
		if x&0x80 != 0 {
			return 0, fmt.Errorf("byte 0x%02x has high bit set in synchsafe field", x)
		}
		v = (v << 7) | int(x&0x7F)
	}
	return v, nil
}

// humanName searches V23CommonIDs, which maps descriptions to frame
// IDs, for id; when an ID has several descriptions the longest wins.
func humanName(id string) string {
	var best string
	for name, frameID := range bogemid3v2.V23CommonIDs {
		if frameID == id && len(name) > len(best) {
			best = name
		}
	}
	return best
}

// decodeText decodes a text-information or comment frame's payload.
// Byte 0 (the text encoding indicator) is skipped and not consulted:
// when the rest contains an FF FE marker it is decoded as UTF-16LE
// from just after the marker, otherwise it is taken as raw bytes with
// trailing NULs stripped. TLEN is additionally coerced to an integer
// string, matching how a millisecond duration is displayed; a
// non-numeric payload yields an empty string rather than an error.
func decodeText(id string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	body := data[1:]

	var text string
	if idx := indexOf(body, []byte{0xFF, 0xFE}); idx >= 0 {
		text = decodeUTF16LE(body[idx+2:])
	} else {
		text = strings.TrimRight(string(body), "\x00")
	}

	if id == "TLEN" {
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return ""
		}
		return strconv.Itoa(n)
	}
	return text
}

func indexOf(haystack, needle []byte) int {
	n := len(needle)
	if n == 0 || len(haystack) < n {
		return -1
	}
	for i := 0; i+n <= len(haystack); i++ {
		if string(haystack[i:i+n]) == string(needle) {
			return i
		}
	}
	return -1
}

func decodeUTF16LE(b []byte) string {
	var sb strings.Builder
	for i := 0; i+1 < len(b); i += 2 {
		r := rune(uint16(b[i]) | uint16(b[i+1])<<8)
		if r == 0 {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
