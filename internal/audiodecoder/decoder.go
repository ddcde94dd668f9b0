// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audiodecoder implements the Audio Decoder (spec.md §4.5). No
// pure-Go audio codec covers the container/codec matrix a DJ library
// spans (FLAC, ALAC, WAV/PCM, AIFF, MP3, AAC); this decoder shells out to
// ffmpeg, the same convention the retrieval pack's own audio-processing
// examples use rather than reimplementing codecs.
package audiodecoder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"

	"github.com/ryanv/reklawdbox-go/internal/logging"
)

// Decoded is the decoder's output: mono float samples in [-1,1] plus the
// source sample rate.
type Decoded struct {
	Samples    []float32
	SampleRate int
}

// ErrEmptyResult is returned when decoding produces zero samples.
var ErrEmptyResult = errors.New("audiodecoder: empty result")

const defaultProbeSampleRate = 44100

// Decode probes path by extension hint, selects the first non-null audio
// track, and decodes it to mono float32 PCM via ffmpeg. Context
// cancellation kills the ffmpeg subprocess.
func Decode(ctx context.Context, path string) (Decoded, error) {
	rate, err := probeSampleRate(ctx, path)
	if err != nil {
		return Decoded{}, fmt.Errorf("audiodecoder: probe %s: %w", path, err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-map", "0:a:0",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", rate),
		"-f", "f32le",
		"-",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Decoded{}, fmt.Errorf("audiodecoder: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Decoded{}, fmt.Errorf("audiodecoder: start ffmpeg: %w", err)
	}

	samples, readErr := readFloat32LE(stdout)

	waitErr := cmd.Wait()
	if waitErr != nil {
		return Decoded{}, fmt.Errorf("audiodecoder: ffmpeg exited: %w: %s", waitErr, stderr.String())
	}
	if readErr != nil {
		logging.Component("audiodecoder").Err(readErr).Str("path", path).Msg("decode-only error, stream truncated")
	}

	if len(samples) == 0 {
		return Decoded{}, ErrEmptyResult
	}

	return Decoded{Samples: samples, SampleRate: rate}, nil
}

// readFloat32LE reads a little-endian float32 PCM stream until EOF. A
// trailing partial frame (fewer than 4 bytes) is a clean end-of-stream,
// not a decode error; its bytes are dropped without being reported.
func readFloat32LE(r io.Reader) ([]float32, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	var samples []float32
	buf := make([]byte, 4)

	for {
		if _, err := io.ReadFull(br, buf); err != nil {
			if errors.Is(err, io.EOF) {
				return samples, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return samples, nil
			}
			return samples, err
		}
		bits := binary.LittleEndian.Uint32(buf)
		samples = append(samples, math.Float32frombits(bits))
	}
}

// probeSampleRate shells out to ffprobe to read the source sample rate of
// the first audio stream, falling back to a sane default if ffprobe
// cannot determine one.
func probeSampleRate(ctx context.Context, path string) (int, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	var rate int
	if _, err := fmt.Sscanf(string(bytes.TrimSpace(out)), "%d", &rate); err != nil || rate <= 0 {
		return defaultProbeSampleRate, nil
	}
	return rate, nil
}
