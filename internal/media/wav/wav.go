// Package wav reads and writes mono 16-bit PCM WAV files.
//
// The assembler and redaction coordinator need direct sample access for
// silence padding, span cuts, and mixdown math, which shelling out to
// ffmpeg cannot provide. Only the single format the pipeline produces is
// supported; anything else is rejected rather than resampled.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Audio holds mono samples in [-1, 1] at a known sample rate.
type Audio struct {
	SampleRate int
	Samples    []float64
}

// Duration returns the clip length in seconds.
func (a Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// Silence returns a zero-filled clip of n samples at the given rate.
func Silence(sampleRate, n int) Audio {
	return Audio{SampleRate: sampleRate, Samples: make([]float64, n)}
}

const (
	riffHeaderSize = 44
	formatPCM      = 1
)

// ReadFile decodes a mono 16-bit PCM WAV file.
func ReadFile(path string) (Audio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Audio{}, err
	}
	return decode(data)
}

// WriteFile encodes audio as mono 16-bit PCM WAV, clamping samples to [-1, 1].
func WriteFile(path string, audio Audio) error {
	if audio.SampleRate <= 0 {
		return errors.New("wav: sample rate must be positive")
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := encode(file, audio); err != nil {
		return fmt.Errorf("wav encode %s: %w", path, err)
	}
	return nil
}

func decode(data []byte) (Audio, error) {
	if len(data) < riffHeaderSize {
		return Audio{}, errors.New("wav: file too short")
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Audio{}, errors.New("wav: not a RIFF/WAVE file")
	}

	var audio Audio
	var haveFormat bool
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return Audio{}, errors.New("wav: truncated chunk")
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return Audio{}, errors.New("wav: malformed fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			channels := binary.LittleEndian.Uint16(data[body+2 : body+4])
			rate := binary.LittleEndian.Uint32(data[body+4 : body+8])
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if format != formatPCM {
				return Audio{}, fmt.Errorf("wav: unsupported format %d, want PCM", format)
			}
			if channels != 1 {
				return Audio{}, fmt.Errorf("wav: %d channels, want mono", channels)
			}
			if bits != 16 {
				return Audio{}, fmt.Errorf("wav: %d-bit samples, want 16", bits)
			}
			audio.SampleRate = int(rate)
			haveFormat = true
		case "data":
			if !haveFormat {
				return Audio{}, errors.New("wav: data chunk before fmt chunk")
			}
			count := chunkSize / 2
			audio.Samples = make([]float64, count)
			for i := 0; i < count; i++ {
				raw := int16(binary.LittleEndian.Uint16(data[body+2*i : body+2*i+2]))
				audio.Samples[i] = float64(raw) / 32768.0
			}
			return audio, nil
		}
		// Chunks are word-aligned.
		offset = body + chunkSize + chunkSize%2
	}
	return Audio{}, errors.New("wav: no data chunk")
}

func encode(w io.Writer, audio Audio) error {
	dataSize := len(audio.Samples) * 2

	header := make([]byte, riffHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], 1)
	binary.LittleEndian.PutUint32(header[24:28], uint32(audio.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(audio.SampleRate*2))
	binary.LittleEndian.PutUint16(header[32:34], 2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))
	if _, err := w.Write(header); err != nil {
		return err
	}

	buf := make([]byte, dataSize)
	for i, sample := range audio.Samples {
		clamped := math.Max(-1, math.Min(1, sample))
		binary.LittleEndian.PutUint16(buf[2*i:2*i+2], uint16(int16(math.Round(clamped*32767))))
	}
	_, err := w.Write(buf)
	return err
}
