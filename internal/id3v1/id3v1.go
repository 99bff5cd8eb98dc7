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

// Package id3v1 reads the trailing 128-byte ID3v1/ID3v1.1 tag, if any.
package id3v1

import "strings"

const Size = 128

// Tag is a decoded ID3v1.1 trailer.
type Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	// HasTrack is set and Track read from byte 126 whenever bytes 125
	// and 126 are not both zero. Comment always holds only the leading
	// 28 comment bytes, so a plain ID3v1 comment that runs into the
	// final two bytes is reported as a track number.
	Track      int
	HasTrack   bool
	GenreByte  byte
	GenreName  string
	Raw        []byte
}

// Detect reports whether the last 128 bytes of buf form an ID3v1 tag.
func Detect(buf []byte) bool {
	if len(buf) < Size {
		return false
	}
	tail := buf[len(buf)-Size:]
	return tail[0] == 'T' && tail[1] == 'A' && tail[2] == 'G'
}

// Decode parses the trailing 128 bytes of buf as an ID3v1/ID3v1.1 tag.
// It returns a zero-value Tag when none is present, which is not an
// error.
func Decode(buf []byte) Tag {
	if !Detect(buf) {
		return Tag{}
	}
	raw := buf[len(buf)-Size:]

	t := Tag{
		Title:   trimField(raw[3:33]),
		Artist:  trimField(raw[33:63]),
		Album:   trimField(raw[63:93]),
		Year:    trimField(raw[93:97]),
		GenreByte: raw[127],
		Raw:     raw,
	}
	t.GenreName = Genre(t.GenreByte)

	commentField := raw[97:127]
	t.Comment = trimField(commentField[:28])
	// No track number only when both of the final two comment bytes are
	// zero; otherwise the second byte is the track, even when it reads
	// as zero alongside a nonzero first byte.
	if commentField[28] != 0 || commentField[29] != 0 {
		t.HasTrack = true
		t.Track = int(commentField[29])
	}

	return t
}

func trimField(b []byte) string {
	return strings.TrimRight(string(b), "\x00 ")
}
