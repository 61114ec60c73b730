package services

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

// DefaultMockDelay mimics a provider round trip.
const DefaultMockDelay = 2 * time.Second

// MockGateway returns a fixed prediction after a delay. It is used when no
// provider credential is configured.
type MockGateway struct {
	delay time.Duration
}

// NewMockGateway creates a [MockGateway]. A negative delay uses [DefaultMockDelay].
func NewMockGateway(delay time.Duration) *MockGateway {
	if delay < 0 {
		delay = DefaultMockDelay
	}
	return &MockGateway{delay: delay}
}

// Name implements [Classifier].
func (m *MockGateway) Name() string { return "Mock" }

// Classify implements [Classifier].
func (m *MockGateway) Classify(ctx context.Context, file models.AudioFile) (*models.AnalysisResult, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: mock: %v", shared.ErrInvalidResponse, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: mock: %v", shared.ErrInvalidResponse, err)
	}

	result := MockResult(file.Info())
	return &result, nil
}

// MockResult is the offline prediction for info.
func MockResult(info models.FileInfo) models.AnalysisResult {
	return models.AnalysisResult{
		File: info,
		Top3: []models.Genre{
			{Genre: "Indie Rock", Probability: 0.65},
			{Genre: "Alternative", Probability: 0.25},
			{Genre: "Shoegaze", Probability: 0.10},
		},
	}
}
