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

// Package cli wires the cobra command tree for the mp3scope binary.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/stegoscope/mp3scope/internal/analyzer"
	"github.com/stegoscope/mp3scope/internal/logger"
	"github.com/stegoscope/mp3scope/internal/mp3err"
	"github.com/stegoscope/mp3scope/internal/reconstruct"
	"github.com/stegoscope/mp3scope/internal/report"
	"github.com/stegoscope/mp3scope/pkg/pbar"
	dirutil "github.com/stegoscope/mp3scope/pkg/util/os"
)

const AppName = "mp3scope"

// Execute builds and runs the root command against os.Args.
func Execute() error {
	return RootCommand().Execute()
}

// RootCommand builds the mp3scope command tree.
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          AppName + " <file>",
		Short:        AppName + " - MP3 structural analysis for steganography forensics",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	cmd.Flags().StringP("output", "o", "", "output path; defaults to <file>.json in analyze mode, <file>.out.mp3 in reconstruct mode")
	cmd.Flags().BoolP("data", "d", false, "include raw bytes for every frame and tag in the artifact")
	cmd.Flags().String("dump-maindata", "", "directory to additionally dump per-frame main-data blobs into")
	cmd.Flags().BoolP("force", "f", false, "overwrite the output path if it already exists")
	cmd.Flags().Bool("hex", false, "encode raw byte fields as hex instead of Python byte-literal strings")
	cmd.Flags().BoolP("reconstruct", "r", false, "treat <file> as a JSON artifact and reconstruct the original MP3 from it")
	cmd.Flags().Bool("verbose", false, "enable debug logging")
	cmd.Flags().String("log-level", "INFO", "minimum log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().Bool("legacy-sideinfo-offsets", false, "reproduce the original tool's inverted side-info offset selection")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	outputPath, _ := cmd.Flags().GetString("output")
	includeData, _ := cmd.Flags().GetBool("data")
	dumpDir, _ := cmd.Flags().GetString("dump-maindata")
	force, _ := cmd.Flags().GetBool("force")
	hex, _ := cmd.Flags().GetBool("hex")
	doReconstruct, _ := cmd.Flags().GetBool("reconstruct")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logLevelFlag, _ := cmd.Flags().GetString("log-level")
	legacyOffsets, _ := cmd.Flags().GetBool("legacy-sideinfo-offsets")

	logLevel := logger.ParseLevel(logLevelFlag)
	if verbose {
		logLevel = logger.DebugLevel
	}
	log := logger.New(cmd.ErrOrStderr(), logLevel)

	enc := report.EncodingByteLiteral
	if hex {
		enc = report.EncodingHex
	}

	if doReconstruct {
		return runReconstruct(inputPath, outputPath, force, log)
	}
	return runAnalyze(inputPath, outputPath, dumpDir, includeData, force, enc, legacyOffsets, log)
}

func runAnalyze(inputPath, outputPath, dumpDir string, includeData, force bool, enc report.RawEncoding, legacyOffsets bool, log *logger.Logger) error {
	buf, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("cli: reading %s: %w", inputPath, mp3err.ErrIO)
	}

	if outputPath == "" {
		outputPath = inputPath + ".json"
	}
	if err := checkOverwrite(outputPath, force); err != nil {
		return err
	}

	showBar := isTerminal(os.Stdout)
	var bar *pbar.ProgressBarState
	if showBar {
		bar = pbar.NewProgressBarState(int64(len(buf)))
	}

	// dumpMainData needs decoded main-data bytes even when the artifact
	// itself should not carry raw fields; capture them internally and
	// strip before marshaling if the caller didn't ask for --data.
	opts := analyzer.Options{
		LegacySideInfoOffsets: legacyOffsets,
		RawEncoding:           enc,
		IncludeData:           includeData || dumpDir != "",
	}
	if bar != nil {
		opts.OnProgress = func(offset, total, bitRate int, mpegVersion float64) {
			bar.ProcessedBytes = int64(offset)
			bar.FramesFound++
			if mpegVersion != 0 {
				bar.BitRate = bitRate
				bar.MPEGVersion = mpegVersion
			}
			bar.Render(false)
		}
	}

	log.Infof("analyzing %s", inputPath)
	artifact, err := analyzer.Run(filepath.Base(inputPath), buf, opts)
	if bar != nil {
		bar.Render(true)
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}

	if dumpDir != "" {
		if err := dumpMainData(artifact, dumpDir); err != nil {
			return err
		}
	}
	if !includeData {
		stripRawFields(&artifact)
	}

	out, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("cli: encoding artifact: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("cli: writing %s: %w", outputPath, mp3err.ErrIO)
	}

	log.Infof("wrote %s (%d frames)", outputPath, len(artifact.Frames))
	return nil
}

func runReconstruct(inputPath, outputPath string, force bool, log *logger.Logger) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("cli: reading %s: %w", inputPath, mp3err.ErrIO)
	}

	var artifact report.Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return fmt.Errorf("cli: parsing artifact: %w", mp3err.ErrMalformed)
	}

	out, err := reconstruct.FromArtifact(artifact)
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}

	if outputPath == "" {
		outputPath = inputPath + ".out.mp3"
	}
	if err := checkOverwrite(outputPath, force); err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("cli: writing %s: %w", outputPath, mp3err.ErrIO)
	}

	log.Infof("reconstructed %s (%d bytes)", outputPath, len(out))
	return nil
}

func checkOverwrite(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("cli: %s already exists, pass --force to overwrite", path)
	}
	return nil
}

func dumpMainData(a report.Artifact, dir string) error {
	if _, err := dirutil.EnsureDir(dir, false); err != nil {
		return fmt.Errorf("cli: %w: %w", err, mp3err.ErrIO)
	}
	for i, f := range a.Frames {
		if f.MainData == "" {
			continue
		}
		b, err := report.DecodeRaw(f.MainData)
		if err != nil {
			return fmt.Errorf("cli: decoding frame %d main data: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("frame-%05d.maindata", i))
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("cli: writing %s: %w", path, mp3err.ErrIO)
		}
	}
	return nil
}

// stripRawFields clears every raw byte field an artifact may carry, used
// when --data is off but --dump-maindata forced them to be captured.
func stripRawFields(a *report.Artifact) {
	if a.ID3v2 != nil {
		a.ID3v2.Raw = ""
		for i := range a.ID3v2.Frames {
			a.ID3v2.Frames[i].Raw = ""
		}
	}
	if a.ID3v1 != nil {
		a.ID3v1.Raw = ""
	}
	for i := range a.Frames {
		f := &a.Frames[i]
		f.Raw = ""
		f.HeaderGap = ""
		f.MainData = ""
		if f.SideInfo != nil {
			f.SideInfo.Raw = ""
		}
	}
}

func isTerminal(f *os.File) bool {
	return terminal.IsTerminal(int(f.Fd()))
}
