package tasks

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/hajimehoshi/go-mp3"
)

// Limits are the upload guards applied before any provider call.
type Limits struct {
	MaxFileSize   int64
	MaxDuration   time.Duration
	AcceptedTypes []string
}

// DefaultLimits returns 50 MB, 10 minutes and the five accepted audio types.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:   50 * 1024 * 1024,
		MaxDuration:   10 * time.Minute,
		AcceptedTypes: []string{"audio/mpeg", "audio/wav", "audio/x-m4a", "audio/aac", "audio/flac"},
	}
}

// LimitsFromConfig maps the [upload] config section onto [Limits].
func LimitsFromConfig(cfg shared.UploadConfig) Limits {
	return Limits{
		MaxFileSize:   cfg.MaxFileSize(),
		MaxDuration:   cfg.MaxDuration(),
		AcceptedTypes: slices.Clone(cfg.AcceptedTypes),
	}
}

// extensionTypes maps accepted file extensions to their canonical MIME type.
var extensionTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/x-m4a",
	".aac":  "audio/aac",
	".flac": "audio/flac",
}

// typeAliases folds common spellings onto the canonical MIME type.
var typeAliases = map[string]string{
	"audio/mp3":      "audio/mpeg",
	"audio/x-wav":    "audio/wav",
	"audio/wave":     "audio/wav",
	"audio/vnd.wave": "audio/wav",
	"audio/mp4":      "audio/x-m4a",
	"audio/m4a":      "audio/x-m4a",
	"audio/x-aac":    "audio/aac",
	"audio/x-flac":   "audio/flac",
}

// DetectMimeType resolves an upload's type from its declared Content-Type,
// falling back to the file extension when the declaration is missing or generic.
func DetectMimeType(name, declared string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			declared = strings.ToLower(mt)
		}
		if alias, ok := typeAliases[declared]; ok {
			declared = alias
		}
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if mt, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return declared
}

// Check applies the size, type and duration guards in that order.
func (l Limits) Check(file models.AudioFile) error {
	if file.Size > l.MaxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", shared.ErrFileTooLarge, file.Size, l.MaxFileSize)
	}
	if !slices.Contains(l.AcceptedTypes, file.MimeType) {
		return fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, file.MimeType)
	}
	if l.MaxDuration <= 0 {
		return nil
	}
	if d, ok := ProbeDuration(file); ok && d > l.MaxDuration {
		return fmt.Errorf("%w: %s exceeds %s", shared.ErrTooLong, d.Round(time.Second), l.MaxDuration)
	}
	return nil
}

// ProbeDuration measures the playing time of MP3 and WAV uploads. Other
// containers, or data that does not parse, report ok=false and are left to
// the provider.
func ProbeDuration(file models.AudioFile) (time.Duration, bool) {
	switch file.MimeType {
	case "audio/mpeg":
		return mp3Duration(file.Data)
	case "audio/wav":
		return wavDuration(file.Data)
	default:
		return 0, false
	}
}

// mp3Duration decodes frame headers; go-mp3 reports length in bytes of
// 16-bit stereo PCM.
func mp3Duration(data []byte) (d time.Duration, ok bool) {
	defer func() {
		if recover() != nil {
			d, ok = 0, false
		}
	}()

	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil || dec.SampleRate() <= 0 || dec.Length() <= 0 {
		return 0, false
	}
	const bytesPerFrame = 4
	samples := dec.Length() / bytesPerFrame
	return time.Duration(samples) * time.Second / time.Duration(dec.SampleRate()), true
}

// wavDuration walks the RIFF chunks for the fmt byte rate and data length.
func wavDuration(data []byte) (time.Duration, bool) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, false
	}

	var byteRate, dataSize uint32
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := binary.LittleEndian.Uint32(data[off+4 : off+8])
		body := off + 8

		switch id {
		case "fmt ":
			if body+12 > len(data) {
				return 0, false
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
		case "data":
			dataSize = min(size, uint32(len(data)-body))
		}
		if byteRate > 0 && dataSize > 0 {
			break
		}

		next := int64(body) + int64(size) + int64(size%2)
		if next > int64(len(data)) {
			break
		}
		off = int(next)
	}

	if byteRate == 0 || dataSize == 0 {
		return 0, false
	}
	return time.Duration(dataSize) * time.Second / time.Duration(byteRate), true
}
