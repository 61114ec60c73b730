package locale

import (
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

func TestFor(t *testing.T) {
	if For(models.LocaleKorean).Locale != models.LocaleKorean {
		t.Error("expected korean table")
	}
	if For(models.Locale("fr")).Locale != models.LocaleEnglish {
		t.Error("unknown locales should fall back to english")
	}
}

func TestAnalysesLeft(t *testing.T) {
	tests := []struct {
		locale models.Locale
		n      int
		want   string
	}{
		{models.LocaleEnglish, 1, "1 analysis left today."},
		{models.LocaleEnglish, 0, "0 analyses left today."},
		{models.LocaleEnglish, 20, "20 analyses left today."},
		{models.LocaleKorean, 3, "오늘 3회 분석 가능합니다."},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.locale, tt.n), func(t *testing.T) {
			if got := For(tt.locale).AnalysesLeft(tt.n); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	en := For(models.LocaleEnglish)
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrapped: %w", shared.ErrFileTooLarge), "File is too large. Maximum size is 50MB."},
		{shared.ErrUnsupportedFormat, "Unsupported file format."},
		{shared.ErrQuotaExceeded, "You have reached the daily analysis limit."},
		{shared.ErrInvalidResponse, "Failed to get analysis from AI model."},
		{errors.New("anything else"), "Failed to get analysis from AI model."},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := en.ErrorMessage(tt.err); got != tt.want {
			t.Errorf("ErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}

	if got := For(models.LocaleKorean).ErrorMessage(shared.ErrQuotaExceeded); got != "일일 분석 한도에 도달했습니다." {
		t.Errorf("unexpected korean message %q", got)
	}
}

func TestAnalyzingSteps(t *testing.T) {
	en := For(models.LocaleEnglish)
	steps := en.AnalyzingSteps()
	if len(steps) != 5 || steps[0] != "Processing audio waveform..." {
		t.Fatalf("unexpected steps %v", steps)
	}

	steps[0] = "mutated"
	if en.AnalyzingStep(0) != "Processing audio waveform..." {
		t.Error("returned steps should be a copy")
	}
	if en.AnalyzingStep(6) != "Extracting acoustic features..." {
		t.Errorf("expected wraparound, got %q", en.AnalyzingStep(6))
	}
}

func TestDetect(t *testing.T) {
	for lang, want := range map[string]models.Locale{
		"ko_KR.UTF-8": models.LocaleKorean,
		"en_US.UTF-8": models.LocaleEnglish,
		"":            models.LocaleEnglish,
		"C":           models.LocaleEnglish,
	} {
		if got := Detect(lang); got != want {
			t.Errorf("Detect(%q) = %s, want %s", lang, got, want)
		}
	}
}
