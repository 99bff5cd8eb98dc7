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

// Package analyzer orchestrates a full structural analysis run: ID3v2
// container, frame walk, ID3v1 trailer, stego signature detection and
// cross-frame statistics, assembled into a report.Artifact.
package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stegoscope/mp3scope/internal/id3v1"
	"github.com/stegoscope/mp3scope/internal/id3v2"
	"github.com/stegoscope/mp3scope/internal/mp3err"
	"github.com/stegoscope/mp3scope/internal/mp3frame"
	"github.com/stegoscope/mp3scope/internal/report"
	"github.com/stegoscope/mp3scope/internal/sideinfo"
	"github.com/stegoscope/mp3scope/internal/signature"
	"github.com/stegoscope/mp3scope/internal/stats"
	"github.com/stegoscope/mp3scope/internal/walker"
)

// Options configures Run.
type Options struct {
	// LegacySideInfoOffsets reproduces the original tool's inverted
	// side-info offset selection instead of the corrected mapping.
	LegacySideInfoOffsets bool

	// RawEncoding selects hex or Python byte-literal encoding for raw
	// byte fields in the emitted artifact.
	RawEncoding report.RawEncoding

	// IncludeData gates emission of raw byte fields (per spec section 6:
	// "raw fields are omitted entirely when --data is off") for every
	// frame and tag: side info, main data, the header gap, awkward
	// spans, and the ID3v2/ID3v1 container bytes. The decoded header
	// bitstring is always present regardless of this flag.
	IncludeData bool

	// OnProgress, if set, is called as the frame walk advances.
	OnProgress walker.ProgressFunc
}

var (
	versionCategories = []string{"1", "2", "2.5"}
	layerCategories   = []string{"1", "2", "3"}
	crcCategories     = []string{"present", "absent"}
	modeCategories    = []string{"Stereo", "JointStereo", "DualChannel", "Mono"}
	modeExtCategories = []string{"IntensityOffMSOff", "IntensityOnMSOff", "IntensityOffMSOn", "IntensityOnMSOn", "NONE"}
	emphasisCategories = []string{"NONE", "MS5015", "Reserved", "CCITJ17"}
)

// Run analyzes the full contents of buf (an entire MP3 file read into
// memory) and returns the resulting artifact. filename is recorded
// verbatim in the artifact's File field.
func Run(filename string, buf []byte, opts Options) (report.Artifact, error) {
	// Per spec, ID3v2 validation failures degrade to "no ID3v2"
	// (offset 0) rather than aborting the whole analysis.
	tag2, err := id3v2.Decode(buf)
	if err != nil {
		tag2 = id3v2.Tag{}
	}

	body := buf[tag2.TotalSize:]

	var tailSize int
	if id3v1.Detect(body) {
		tailSize = id3v1.Size
	}
	frameRegion := body[:len(body)-tailSize]

	records := walker.Walk(frameRegion, walker.Options{
		LegacySideInfoOffsets: opts.LegacySideInfoOffsets,
		OnProgress:            opts.OnProgress,
	})

	if !hasParseableFrame(records) {
		return report.Artifact{}, fmt.Errorf("analyzer: no MPEG frames parseable: %w", mp3err.ErrInvalidHeader)
	}

	artifact := report.Artifact{
		File:   filename,
		Frames: make([]report.Frame, 0, len(records)),
	}

	if tag2.TotalSize > 0 {
		artifact.ID3v2 = convertID3v2(tag2, opts.RawEncoding, opts.IncludeData)
	}
	if tailSize > 0 {
		tag1 := id3v1.Decode(body)
		artifact.ID3v1 = convertID3v1(tag1, opts.RawEncoding, opts.IncludeData)
	}

	numeric := map[string]*stats.Numeric{
		"bit_rate":          {},
		"sampling_rate":     {},
		"frame_size_bytes":  {},
		"samples_per_frame": {},
	}
	categorical := map[string]*stats.Categorical{
		"mpeg_version":   stats.NewCategorical(versionCategories),
		"layer":          stats.NewCategorical(layerCategories),
		"crc":            stats.NewCategorical(crcCategories),
		"channel_mode":   stats.NewCategorical(modeCategories),
		"mode_extension": stats.NewCategorical(modeExtCategories),
		"emphasis":       stats.NewCategorical(emphasisCategories),
	}
	bySignature := map[string]int{}

	for i, rec := range records {
		f := report.Frame{
			// rec.Position is relative to the start of the frame
			// region (after any ID3v2 container); re-base it to an
			// absolute file offset, per the data model's requirement
			// that every position be absolute.
			Position: rec.Position + tag2.TotalSize,
			Length:   rec.Length,
			Awkward:  rec.Awkward,
		}

		if rec.Awkward {
			if opts.IncludeData {
				f.Raw = report.EncodeRaw(rec.AwkwardRaw, opts.RawEncoding)
			}
			artifact.Frames = append(artifact.Frames, f)
			continue
		}

		f.Header = convertHeader(rec.Header)
		if opts.IncludeData && len(rec.HeaderGap) > 0 {
			f.HeaderGap = report.EncodeRaw(rec.HeaderGap, opts.RawEncoding)
		}
		sideInfoPos := rec.SideInfoPosition + tag2.TotalSize
		f.SideInfo = convertSideInfo(rec.SideInfo, rec.SideInfoRaw, sideInfoPos, opts.RawEncoding, opts.IncludeData)
		if opts.IncludeData && len(rec.MainData) > 0 {
			f.MainData = report.EncodeRaw(rec.MainData, opts.RawEncoding)
		}

		sigs := signature.PerFrame(i, rec, len(frameRegion))
		f.StegoSignatures = sigs
		for _, s := range sigs {
			bySignature[toolFromSignature(s)]++
		}

		numeric["bit_rate"].Add(float64(rec.Header.BitRate))
		numeric["sampling_rate"].Add(float64(rec.Header.SamplingRate))
		numeric["frame_size_bytes"].Add(float64(rec.Header.FrameSizeBytes))
		numeric["samples_per_frame"].Add(float64(rec.Header.SamplesPerFrame))

		categorical["mpeg_version"].Add(formatVersion(rec.Header.MPEGVersion))
		categorical["layer"].Add(strconv.Itoa(rec.Header.Layer))
		categorical["crc"].Add(crcLabel(rec.Header.CrcAbsent))
		categorical["channel_mode"].Add(rec.Header.ChannelMode.String())
		categorical["mode_extension"].Add(rec.Header.ModeExtension.String())
		categorical["emphasis"].Add(rec.Header.Emphasis.String())

		artifact.Frames = append(artifact.Frames, f)
	}

	globalSigs := signature.Global(records)
	for _, s := range globalSigs {
		bySignature[toolFromSignature(s)]++
	}

	artifact.GlobalHeaderInfo = buildGlobalInfo(numeric, categorical, bySignature, globalSigs)

	return artifact, nil
}

func hasParseableFrame(records []walker.Record) bool {
	for _, r := range records {
		if !r.Awkward {
			return true
		}
	}
	return false
}

func buildGlobalInfo(
	numeric map[string]*stats.Numeric,
	categorical map[string]*stats.Categorical,
	bySignature map[string]int,
	globalSigs []string,
) report.GlobalHeaderInfo {
	g := report.GlobalHeaderInfo{
		Numeric:               make(map[string]report.NumericSummary, len(numeric)),
		Categorical:            make(map[string]map[string]int, len(categorical)),
		CategoricalDominant:    make(map[string]string, len(categorical)),
		StegoSignaturesByTool:  bySignature,
		StegoSignaturesGlobal:  globalSigs,
	}
	for k, n := range numeric {
		s := n.Summary()
		g.Numeric[k] = report.NumericSummary{Avg: s.Avg, Stdev: s.Stdev, Min: s.Min, Max: s.Max}
	}
	for k, c := range categorical {
		g.Categorical[k] = c.Counts()
		g.CategoricalDominant[k] = c.Dominant()
	}
	return g
}

// toolFromSignature extracts the tool-name prefix from a signature
// name by splitting on its first underscore-delimited segment.
func toolFromSignature(sig string) string {
	if idx := strings.Index(sig, "_"); idx > 0 {
		return sig[:idx]
	}
	return sig
}

func formatVersion(v float64) string {
	if v == float64(int(v)) {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func crcLabel(crcAbsent bool) string {
	if crcAbsent {
		return "absent"
	}
	return "present"
}

func convertHeader(h mp3frame.Header) *report.FrameHeader {
	return &report.FrameHeader{
		MPEGVersion:     h.MPEGVersion,
		Layer:           h.Layer,
		CRCAbsent:       h.CrcAbsent,
		BitRate:         h.BitRate,
		SamplingRate:    h.SamplingRate,
		Padding:         h.Padding,
		Private:         h.Private,
		ChannelMode:     h.ChannelMode.String(),
		ModeExtension:   h.ModeExtension.String(),
		Copyright:       h.Copyright,
		Original:        h.Original,
		Emphasis:        h.Emphasis.String(),
		Channels:        h.Channels,
		SamplesPerFrame: h.SamplesPerFrame,
		FrameSizeBytes:  h.FrameSizeBytes,
		Raw:             h.Bitstring,
	}
}

func convertSideInfo(si sideinfo.SideInfo, raw []byte, position int, enc report.RawEncoding, includeData bool) *report.SideInfo {
	if len(si.Granules) == 0 {
		return nil
	}
	out := &report.SideInfo{
		Position:      position,
		Length:        len(raw),
		MainDataBegin: si.MainDataBegin,
		PrivateBits:   si.PrivateBits,
		Scfsi:         si.Scfsi,
	}
	if includeData {
		out.Raw = report.EncodeRaw(raw, enc)
	}
	for _, g := range si.Granules {
		rg := report.SideInfoGranule{}
		for _, c := range g.Channels {
			rg.Channels = append(rg.Channels, report.SideInfoChannel{
				Part23Length:      c.Part23Length,
				BigValues:         c.BigValues,
				GlobalGain:        c.GlobalGain,
				ScalefacCompress:  c.ScalefacCompress,
				WindowSwitching:   c.WindowSwitching,
				BlockType:         c.BlockType,
				MixedBlockFlag:    c.MixedBlockFlag,
				TableSelect:       c.TableSelect[:],
				SubblockGain:      c.SubblockGain[:],
				Region0Count:      c.Region0Count,
				Region1Count:      c.Region1Count,
				Preflag:           c.Preflag,
				ScalefacScale:     c.ScalefacScale,
				Count1TableSelect: c.Count1TableSelect,
				Slen1:             c.Slen1,
				Slen2:             c.Slen2,
			})
		}
		out.Granules = append(out.Granules, rg)
	}
	return out
}

func convertID3v2(tag id3v2.Tag, enc report.RawEncoding, includeData bool) *report.ID3v2 {
	out := &report.ID3v2{
		VersionMajor:      tag.VersionMajor,
		VersionMinor:      tag.VersionMinor,
		Unsynchronisation: tag.Flags.Unsynchronisation,
		ExtendedHeader:    tag.Flags.ExtendedHeader,
		Experimental:      tag.Flags.Experimental,
		FooterPresent:     tag.Flags.FooterPresent,
	}
	if includeData {
		out.Raw = report.EncodeRaw(tag.Raw, enc)
	}
	for _, f := range tag.Frames {
		rf := report.ID3v2Frame{
			ID:        f.ID,
			HumanName: f.HumanName,
			Text:      f.Text,
		}
		if includeData {
			rf.Raw = report.EncodeRaw(f.Data, enc)
		}
		out.Frames = append(out.Frames, rf)
	}
	return out
}

func convertID3v1(tag id3v1.Tag, enc report.RawEncoding, includeData bool) *report.ID3v1 {
	out := &report.ID3v1{
		Title:     tag.Title,
		Artist:    tag.Artist,
		Album:     tag.Album,
		Year:      tag.Year,
		Comment:   tag.Comment,
		HasTrack:  tag.HasTrack,
		Track:     tag.Track,
		GenreByte: int(tag.GenreByte),
		GenreName: tag.GenreName,
	}
	if includeData {
		out.Raw = report.EncodeRaw(tag.Raw, enc)
	}
	return out
}
