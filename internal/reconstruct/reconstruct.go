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

// Package reconstruct rebuilds a bit-exact MP3 file from a
// previously emitted report.Artifact.
package reconstruct

import (
	"bytes"
	"fmt"

	"github.com/stegoscope/mp3scope/internal/mp3err"
	"github.com/stegoscope/mp3scope/internal/mp3frame"
	"github.com/stegoscope/mp3scope/internal/report"
)

// FromArtifact concatenates the ID3v2 container, every frame (its raw
// header bitstring plus side-info and main-data raw fields, or its
// awkward raw span), and the ID3v1 trailer, in that order, producing
// the original byte stream the artifact was derived from. An empty raw
// field where bytes are required (ID3v2/ID3v1 container, awkward span,
// side info), or a non-awkward frame without a header, is reported as
// mp3err.ErrMissingRawData.
func FromArtifact(a report.Artifact) ([]byte, error) {
	var out bytes.Buffer

	if a.ID3v2 != nil {
		if a.ID3v2.Raw == "" {
			return nil, fmt.Errorf("reconstruct: id3v2: %w", mp3err.ErrMissingRawData)
		}
		raw, err := report.DecodeRaw(a.ID3v2.Raw)
		if err != nil {
			return nil, fmt.Errorf("reconstruct: id3v2 raw: %w", err)
		}
		out.Write(raw)
	}

	for i, f := range a.Frames {
		if f.Awkward {
			if f.Raw == "" {
				return nil, fmt.Errorf("reconstruct: frame %d awkward raw: %w", i, mp3err.ErrMissingRawData)
			}
			raw, err := report.DecodeRaw(f.Raw)
			if err != nil {
				return nil, fmt.Errorf("reconstruct: frame %d awkward raw: %w", i, err)
			}
			out.Write(raw)
			continue
		}
		if f.Header == nil {
			return nil, fmt.Errorf("reconstruct: frame %d: %w", i, mp3err.ErrMissingRawData)
		}

		headerBytes, err := mp3frame.BitstringToBytes(f.Header.Raw)
		if err != nil {
			return nil, fmt.Errorf("reconstruct: frame %d header: %w", i, err)
		}
		out.Write(headerBytes)

		if f.HeaderGap != "" {
			gapBytes, err := report.DecodeRaw(f.HeaderGap)
			if err != nil {
				return nil, fmt.Errorf("reconstruct: frame %d header gap: %w", i, err)
			}
			out.Write(gapBytes)
		}

		if f.SideInfo != nil {
			if f.SideInfo.Raw == "" {
				return nil, fmt.Errorf("reconstruct: frame %d side info: %w", i, mp3err.ErrMissingRawData)
			}
			sideBytes, err := report.DecodeRaw(f.SideInfo.Raw)
			if err != nil {
				return nil, fmt.Errorf("reconstruct: frame %d side info: %w", i, err)
			}
			out.Write(sideBytes)
		}

		if f.MainData != "" {
			mainBytes, err := report.DecodeRaw(f.MainData)
			if err != nil {
				return nil, fmt.Errorf("reconstruct: frame %d main data: %w", i, err)
			}
			out.Write(mainBytes)
		}
	}

	if a.ID3v1 != nil {
		if a.ID3v1.Raw == "" {
			return nil, fmt.Errorf("reconstruct: id3v1: %w", mp3err.ErrMissingRawData)
		}
		raw, err := report.DecodeRaw(a.ID3v1.Raw)
		if err != nil {
			return nil, fmt.Errorf("reconstruct: id3v1 raw: %w", err)
		}
		out.Write(raw)
	}

	return out.Bytes(), nil
}
