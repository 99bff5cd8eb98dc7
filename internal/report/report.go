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

// Package report defines the JSON artifact schema emitted by an
// analysis run, and encodes/decodes the raw byte fields it carries
// either as hex strings or as Python byte-literal strings (the format
// the reconstructor must accept from artifacts produced by the tool
// this schema is compatible with).
package report

// RawEncoding selects how raw byte fields are rendered in an emitted
// artifact.
type RawEncoding int

const (
	EncodingHex RawEncoding = iota
	EncodingByteLiteral
)

// FrameHeader mirrors the decoded fields of mp3frame.Header for JSON
// output.
type FrameHeader struct {
	MPEGVersion     float64 `json:"mpeg_version"`
	Layer           int     `json:"layer"`
	CRCAbsent       bool    `json:"crc_absent"`
	BitRate         int     `json:"bit_rate"`
	SamplingRate    int     `json:"sampling_rate"`
	Padding         bool    `json:"padding"`
	Private         bool    `json:"private"`
	ChannelMode     string  `json:"channel_mode"`
	ModeExtension   string  `json:"mode_extension"`
	Copyright       bool    `json:"copyright"`
	Original        bool    `json:"original"`
	Emphasis        string  `json:"emphasis"`
	Channels        int     `json:"channels"`
	SamplesPerFrame int     `json:"samples_per_frame"`
	FrameSizeBytes  int     `json:"frame_size_bytes"`
	Raw             string  `json:"raw"`
}

// SideInfoChannel mirrors sideinfo.Channel for JSON output.
type SideInfoChannel struct {
	Part23Length      int    `json:"part2_3_length"`
	BigValues         int    `json:"big_values"`
	GlobalGain        int    `json:"global_gain"`
	ScalefacCompress  int    `json:"scalefac_compress"`
	WindowSwitching   bool   `json:"window_switching_flag"`
	BlockType         int    `json:"block_type,omitempty"`
	MixedBlockFlag    bool   `json:"mixed_block_flag,omitempty"`
	TableSelect       []int  `json:"table_select"`
	SubblockGain      []int  `json:"subblock_gain,omitempty"`
	Region0Count      int    `json:"region0_count,omitempty"`
	Region1Count      int    `json:"region1_count,omitempty"`
	Preflag           bool   `json:"preflag,omitempty"`
	ScalefacScale     bool   `json:"scalefac_scale"`
	Count1TableSelect bool   `json:"count1table_select"`
	Slen1             int    `json:"slen1"`
	Slen2             int    `json:"slen2"`
}

// SideInfoGranule mirrors sideinfo.Granule for JSON output.
type SideInfoGranule struct {
	Channels []SideInfoChannel `json:"channels"`
}

// SideInfo mirrors sideinfo.SideInfo for JSON output.
type SideInfo struct {
	Position      int               `json:"position"`
	Length        int               `json:"length"`
	MainDataBegin int               `json:"main_data_begin"`
	PrivateBits   int               `json:"private_bits"`
	Scfsi         [][4]bool         `json:"scfsi,omitempty"`
	Granules      []SideInfoGranule `json:"granules"`
	Raw           string            `json:"raw,omitempty"`
}

// Frame is one walked frame's full structural record.
type Frame struct {
	Position int          `json:"position"`
	Length   int          `json:"length"`
	Awkward  bool         `json:"awkward,omitempty"`
	Header   *FrameHeader `json:"header,omitempty"`
	// HeaderGap carries the bytes between the 4-byte header and the
	// start of side information — the 2-byte CRC when present — so
	// reconstruction can replay them without recomputing a side-info
	// offset itself.
	HeaderGap       string    `json:"header_gap,omitempty"`
	SideInfo        *SideInfo `json:"side_info,omitempty"`
	MainData        string    `json:"main_data,omitempty"`
	Raw             string    `json:"raw,omitempty"`
	StegoSignatures []string  `json:"stego_signatures,omitempty"`
}

// ID3v2Frame mirrors id3v2.Frame for JSON output.
type ID3v2Frame struct {
	ID        string `json:"id"`
	HumanName string `json:"human_name,omitempty"`
	Text      string `json:"text,omitempty"`
	Raw       string `json:"raw,omitempty"`
}

// ID3v2 mirrors id3v2.Tag for JSON output.
type ID3v2 struct {
	VersionMajor int          `json:"version_major"`
	VersionMinor int          `json:"version_minor"`
	Unsynchronisation bool    `json:"unsynchronisation"`
	ExtendedHeader    bool    `json:"extended_header"`
	Experimental      bool    `json:"experimental"`
	FooterPresent     bool    `json:"footer_present"`
	Frames       []ID3v2Frame `json:"frames"`
	Raw          string       `json:"raw,omitempty"`
}

// ID3v1 mirrors id3v1.Tag for JSON output.
type ID3v1 struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Year      string `json:"year"`
	Comment   string `json:"comment"`
	HasTrack  bool   `json:"has_track"`
	Track     int    `json:"track,omitempty"`
	GenreByte int    `json:"genre_byte"`
	GenreName string `json:"genre_name"`
	Raw       string `json:"raw,omitempty"`
}

// NumericSummary mirrors stats.NumericSummary for JSON output.
type NumericSummary struct {
	Avg   float64 `json:"avg"`
	Stdev float64 `json:"stdev"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// GlobalHeaderInfo aggregates per-field statistics across every
// non-awkward frame, plus a summary of detected stego signatures.
type GlobalHeaderInfo struct {
	Numeric                map[string]NumericSummary `json:"numeric"`
	Categorical             map[string]map[string]int `json:"categorical"`
	CategoricalDominant     map[string]string          `json:"categorical_dominant"`
	StegoSignaturesByTool   map[string]int             `json:"stego_signatures_by_tool"`
	StegoSignaturesGlobal   []string                   `json:"stego_signatures_global"`
}

// Artifact is the top-level JSON document produced by an analysis run
// and accepted by the reconstructor.
type Artifact struct {
	File             string           `json:"file"`
	ID3v2            *ID3v2           `json:"id3v2,omitempty"`
	Frames           []Frame          `json:"frames"`
	ID3v1            *ID3v1           `json:"id3v1,omitempty"`
	GlobalHeaderInfo GlobalHeaderInfo `json:"global_header_info"`
}
