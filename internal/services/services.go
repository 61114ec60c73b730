// package services defines interface Classifier for turning audio into genre predictions
//
// Gemini (REST generateContent), offline mock
package services

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

// Classifier predicts the top three genres of an audio upload.
type Classifier interface {
	// Classify sends file to the provider. The returned result always carries
	// file's name and size. Any provider failure wraps [shared.ErrInvalidResponse].
	Classify(ctx context.Context, file models.AudioFile) (*models.AnalysisResult, error)

	// Name returns the name of the provider (e.g., "Gemini", "Mock")
	Name() string
}

// NewClassifier returns a [GeminiGateway] when cfg carries a credential and a
// [MockGateway] otherwise.
func NewClassifier(cfg shared.GeminiConfig, client *http.Client, logger *log.Logger) Classifier {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if !cfg.HasCredential() {
		logger.Warn("no provider credential configured, using offline classifier")
		return NewMockGateway(cfg.MockDelay())
	}

	gw, err := NewGeminiGateway(cfg, client)
	if err != nil {
		logger.Error("failed to configure provider, using offline classifier", "err", err)
		return NewMockGateway(cfg.MockDelay())
	}
	return gw
}
