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

// Package bitio provides a big-endian, MSB-first bit cursor over an
// immutable byte slice. It is the only way any other package in this
// module extracts bitfields, which keeps endianness in one place.
package bitio

import (
	"fmt"

	"github.com/stegoscope/mp3scope/internal/mp3err"
)

// Reader reads unsigned integer bitfields from a borrowed, read-only
// byte slice. The zero value is not usable; construct with NewReader.
type Reader struct {
	buf []byte
	c   uint64 // bit cursor, 0 <= c <= 8*len(buf)
}

// NewReader wraps buf for bit-level reads. buf is borrowed, never
// copied or mutated.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the total number of bits available.
func (r *Reader) Len() uint64 {
	return uint64(len(r.buf)) * 8
}

// Pos returns the current bit cursor position.
func (r *Reader) Pos() uint64 {
	return r.c
}

// BytePos returns the byte-aligned position the cursor would read from
// next; only meaningful immediately after AlignByte.
func (r *Reader) BytePos() int {
	return int(r.c / 8)
}

// Read extracts the next n bits (1 <= n <= 32) as an unsigned integer
// and advances the cursor. Reading n == 0 returns 0 without advancing.
// Returns mp3err.ErrOutOfRange if the read would run past the buffer.
func (r *Reader) Read(n int) (uint32, error) {
	v, err := r.Peek(n)
	if err != nil {
		return 0, err
	}
	r.c += uint64(n)
	return v, nil
}

// Peek is like Read but does not advance the cursor.
func (r *Reader) Peek(n int) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 || n > 32 {
		return 0, fmt.Errorf("bitio: width %d out of [0,32]: %w", n, mp3err.ErrOutOfRange)
	}
	if r.c+uint64(n) > r.Len() {
		return 0, fmt.Errorf("bitio: read of %d bits at offset %d exceeds %d available bits: %w",
			n, r.c, r.Len(), mp3err.ErrOutOfRange)
	}

	var v uint32
	pos := r.c
	for remaining := n; remaining > 0; {
		byteIdx := pos / 8
		bitOff := pos % 8
		bitsInByte := 8 - int(bitOff)
		take := bitsInByte
		if take > remaining {
			take = remaining
		}

		b := r.buf[byteIdx]
		shift := bitsInByte - take
		mask := byte((1 << take) - 1)
		chunk := (b >> uint(shift)) & mask

		v = (v << uint(take)) | uint32(chunk)

		pos += uint64(take)
		remaining -= take
	}
	return v, nil
}

// Skip advances the cursor by n bits without returning a value.
func (r *Reader) Skip(n int) error {
	if n < 0 || r.c+uint64(n) > r.Len() {
		return fmt.Errorf("bitio: skip of %d bits at offset %d exceeds %d available bits: %w",
			n, r.c, r.Len(), mp3err.ErrOutOfRange)
	}
	r.c += uint64(n)
	return nil
}

// AlignByte rounds the cursor up to the next byte boundary.
func (r *Reader) AlignByte() {
	if rem := r.c % 8; rem != 0 {
		r.c += 8 - rem
	}
}
