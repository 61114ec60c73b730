// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/repositories"
	"github.com/desertthunder/genresense/internal/shared"
)

// MockClassifier is a test double for [services.Classifier].
//
// When Gate is non-nil, Classify blocks until a value is sent on it (or the
// context ends), which lets tests observe the Analyzing state.
type MockClassifier struct {
	Result *models.AnalysisResult
	Err    error
	Gate   chan struct{}

	mu    sync.Mutex
	calls int
}

// NewMockClassifier returns a classifier answering with the usual three genres.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{Result: &models.AnalysisResult{Top3: []models.Genre{
		{Genre: "Indie Rock", Probability: 0.65},
		{Genre: "Alternative", Probability: 0.25},
		{Genre: "Shoegaze", Probability: 0.10},
	}}}
}

func (m *MockClassifier) Name() string { return "mock" }

func (m *MockClassifier) Classify(ctx context.Context, file models.AudioFile) (*models.AnalysisResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, errors.Join(shared.ErrInvalidResponse, ctx.Err())
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	out := *m.Result
	out.File = file.Info()
	return &out, nil
}

// Calls returns how many times Classify ran.
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MustStore opens an in-memory, migrated database and wraps it in a [repositories.Store].
func MustStore(t *testing.T) *repositories.Store {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repositories.NewStore(db, DiscardLogger())
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// WAV builds a 16-bit mono PCM WAV file of the given length in seconds.
// Only the header is accurate; the sample data is silence.
func WAV(seconds, sampleRate int) []byte {
	const channels, bitsPerSample = 1, 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	dataSize := seconds * byteRate

	var buf bytes.Buffer
	le := func(v any) { binary.Write(&buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	le(uint32(36 + dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	le(uint32(16))
	le(uint16(1))
	le(uint16(channels))
	le(uint32(sampleRate))
	le(uint32(byteRate))
	le(uint16(channels * bitsPerSample / 8))
	le(uint16(bitsPerSample))
	buf.WriteString("data")
	le(uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

// AudioFile wraps data as an upload.
func AudioFile(name, mimeType string, data []byte) models.AudioFile {
	return models.AudioFile{Name: name, Size: int64(len(data)), MimeType: mimeType, Data: data}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
