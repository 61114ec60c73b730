// Package locale holds the fixed English and Korean interface strings.
//
// [For] returns an immutable [Translations] value; surfaces receive it
// explicitly and swap it when the user changes language.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

// ErrorMessages are the user-facing texts for rejected or failed analyses.
type ErrorMessages struct {
	FileTooLarge      string
	UnsupportedFormat string
	DailyLimitReached string
	FileTooLong       string
	AnalysisFailed    string
	Busy              string
}

// Translations is one language's string table.
type Translations struct {
	Locale models.Locale

	Analyzer        string
	Community       string
	Login           string
	LoginComingSoon string

	UploadTitle       string
	UploadSubtitle    string
	UploadConstraints string
	UploadPrompt      string
	Errors            ErrorMessages

	Analyzing      string
	analyzingSteps []string

	ResultTitle    string
	MajorGenre     string
	Top3Genres     string
	AnalyzeAnother string
	CopyResults    string
	Copied         string
	AddToCommunity string

	HistoryTitle string
	HistoryEmpty string

	AddToCommunityTitle    string
	AddToCommunitySubtitle string
	DetectedGenres         string
	Close                  string

	CommunityTitle    string
	CommunitySubtitle string
	AddEntryTitle     string
	MusicTitle        string
	Composer          string
	Genre1            string
	Genre2            string
	Genre3            string
	Add               string
	SearchPlaceholder string
	NoResults         string
	Genres            string
	EntryAdded        string
	RequiredFields    string

	analysesLeft func(int) string
}

// AnalyzingSteps returns the rotating status lines shown while analyzing.
func (t Translations) AnalyzingSteps() []string {
	steps := make([]string, len(t.analyzingSteps))
	copy(steps, t.analyzingSteps)
	return steps
}

// AnalyzingStep returns step i, wrapping around.
func (t Translations) AnalyzingStep(i int) string {
	if len(t.analyzingSteps) == 0 {
		return t.Analyzing
	}
	n := len(t.analyzingSteps)
	return t.analyzingSteps[((i%n)+n)%n]
}

// AnalysesLeft renders the remaining-quota line.
func (t Translations) AnalysesLeft(n int) string {
	if t.analysesLeft == nil {
		return fmt.Sprint(n)
	}
	return t.analysesLeft(n)
}

// ErrorMessage maps a session error onto a localized message. Unknown errors
// get the generic analysis failure text.
func (t Translations) ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, shared.ErrFileTooLarge):
		return t.Errors.FileTooLarge
	case errors.Is(err, shared.ErrUnsupportedFormat):
		return t.Errors.UnsupportedFormat
	case errors.Is(err, shared.ErrQuotaExceeded):
		return t.Errors.DailyLimitReached
	case errors.Is(err, shared.ErrTooLong):
		return t.Errors.FileTooLong
	case errors.Is(err, shared.ErrBusy):
		return t.Errors.Busy
	case errors.Is(err, shared.ErrInvalidInput):
		return t.RequiredFields
	default:
		return t.Errors.AnalysisFailed
	}
}

var english = Translations{
	Locale:          models.LocaleEnglish,
	Analyzer:        "Analyzer",
	Community:       "Community",
	Login:           "Login",
	LoginComingSoon: "Login functionality is coming soon!",

	UploadTitle:       "Discover Your Music's Genre",
	UploadSubtitle:    "Upload an audio file and our AI will predict its top 3 genres.",
	UploadConstraints: "MP3, WAV, M4A, AAC, FLAC up to 50MB (max 10 min)",
	UploadPrompt:      "Path to an audio file",
	Errors: ErrorMessages{
		FileTooLarge:      "File is too large. Maximum size is 50MB.",
		UnsupportedFormat: "Unsupported file format.",
		DailyLimitReached: "You have reached the daily analysis limit.",
		FileTooLong:       "Audio is too long. Maximum length is 10 minutes.",
		AnalysisFailed:    "Failed to get analysis from AI model.",
		Busy:              "An analysis is already in progress.",
	},

	Analyzing: "Analyzing...",
	analyzingSteps: []string{
		"Processing audio waveform...",
		"Extracting acoustic features...",
		"Feeding data to the neural network...",
		"Comparing patterns with genre models...",
		"Finalizing prediction...",
	},

	ResultTitle:    "Analysis Complete",
	MajorGenre:     "Major Genre",
	Top3Genres:     "Top 3 Genres",
	AnalyzeAnother: "Analyze Another",
	CopyResults:    "Copy Results",
	Copied:         "Copied!",
	AddToCommunity: "Add to Community",

	HistoryTitle: "Analysis History",
	HistoryEmpty: "Your analysis history will appear here.",

	AddToCommunityTitle:    "Add to Community",
	AddToCommunitySubtitle: "Share this analysis with the community.",
	DetectedGenres:         "Detected Genres",
	Close:                  "Close",

	CommunityTitle:    "Community Genre Board",
	CommunitySubtitle: "Explore genres tagged by the community.",
	AddEntryTitle:     "Add New Entry",
	MusicTitle:        "Music Title",
	Composer:          "Composer/Artist",
	Genre1:            "Genre 1 (Required)",
	Genre2:            "Genre 2 (Optional)",
	Genre3:            "Genre 3 (Optional)",
	Add:               "Add",
	SearchPlaceholder: "Search by title, composer, or genre...",
	NoResults:         "No results found.",
	Genres:            "Genres",
	EntryAdded:        "Entry added.",
	RequiredFields:    "Title, composer and the first genre are required.",

	analysesLeft: func(n int) string {
		noun := "analyses"
		if n == 1 {
			noun = "analysis"
		}
		return fmt.Sprintf("%d %s left today.", n, noun)
	},
}

var korean = Translations{
	Locale:          models.LocaleKorean,
	Analyzer:        "분석기",
	Community:       "커뮤니티",
	Login:           "로그인",
	LoginComingSoon: "로그인 기능은 곧 제공될 예정입니다!",

	UploadTitle:       "음악 장르를 알아보세요",
	UploadSubtitle:    "오디오 파일을 업로드하면 AI가 상위 3개 장르를 예측합니다.",
	UploadConstraints: "MP3, WAV, M4A, AAC, FLAC 최대 50MB (최대 10분)",
	UploadPrompt:      "오디오 파일 경로",
	Errors: ErrorMessages{
		FileTooLarge:      "파일이 너무 큽니다. 최대 크기는 50MB입니다.",
		UnsupportedFormat: "지원하지 않는 파일 형식입니다.",
		DailyLimitReached: "일일 분석 한도에 도달했습니다.",
		FileTooLong:       "오디오가 너무 깁니다. 최대 길이는 10분입니다.",
		AnalysisFailed:    "AI 모델에서 분석 결과를 가져오지 못했습니다.",
		Busy:              "이미 분석이 진행 중입니다.",
	},

	Analyzing: "분석 중...",
	analyzingSteps: []string{
		"오디오 파형 처리 중...",
		"음향 특징 추출 중...",
		"신경망에 데이터 입력 중...",
		"장르 모델과 패턴 비교 중...",
		"예측 완료 중...",
	},

	ResultTitle:    "분석 완료",
	MajorGenre:     "주요 장르",
	Top3Genres:     "상위 3개 장르",
	AnalyzeAnother: "다른 파일 분석",
	CopyResults:    "결과 복사",
	Copied:         "복사됨!",
	AddToCommunity: "커뮤니티에 추가",

	HistoryTitle: "분석 기록",
	HistoryEmpty: "분석 기록이 여기에 표시됩니다.",

	AddToCommunityTitle:    "커뮤니티에 추가",
	AddToCommunitySubtitle: "이 분석 결과를 커뮤니티와 공유하세요.",
	DetectedGenres:         "감지된 장르",
	Close:                  "닫기",

	CommunityTitle:    "커뮤니티 장르 보드",
	CommunitySubtitle: "커뮤니티가 태그한 장르를 살펴보세요.",
	AddEntryTitle:     "새 항목 추가",
	MusicTitle:        "음악 제목",
	Composer:          "작곡가/아티스트",
	Genre1:            "장르 1 (필수)",
	Genre2:            "장르 2 (선택)",
	Genre3:            "장르 3 (선택)",
	Add:               "추가",
	SearchPlaceholder: "제목, 작곡가 또는 장르로 검색...",
	NoResults:         "검색 결과가 없습니다.",
	Genres:            "장르",
	EntryAdded:        "항목이 추가되었습니다.",
	RequiredFields:    "제목, 작곡가, 첫 번째 장르는 필수입니다.",

	analysesLeft: func(n int) string {
		return fmt.Sprintf("오늘 %d회 분석 가능합니다.", n)
	},
}

// For returns the table for l, falling back to English.
func For(l models.Locale) Translations {
	if l == models.LocaleKorean {
		return korean
	}
	return english
}

// Detect picks a locale from a POSIX LANG value such as "ko_KR.UTF-8".
func Detect(lang string) models.Locale {
	if strings.HasPrefix(strings.ToLower(lang), "ko") {
		return models.LocaleKorean
	}
	return models.LocaleEnglish
}
