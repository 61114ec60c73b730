package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/formatter"
	"github.com/desertthunder/genresense/internal/locale"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/repositories"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/desertthunder/genresense/internal/tasks"
)

// multipartOverhead is the slack allowed on top of the file size limit for
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// QuotaBody is the response of GET /api/quota.
type QuotaBody struct {
	models.QuotaState
	Max     int    `json:"max"`
	Message string `json:"message"`
}

// AddFromResultBody is the request of POST /api/community/from-result.
type AddFromResultBody struct {
	Title    string `json:"title"`
	Composer string `json:"composer"`
}

// SettingsBody is the request of PUT /api/settings; empty fields are left unchanged.
type SettingsBody struct {
	Theme  string `json:"theme,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// API serves the analyzer session, history, community board and settings as JSON.
type API struct {
	session   *tasks.Session
	settings  *repositories.SettingsStore
	quotaMax  int
	logger    *log.Logger
	maxUpload int64
}

// APIOpts contains the dependencies of [API].
type APIOpts struct {
	Session  *tasks.Session
	Settings *repositories.SettingsStore
	QuotaMax int
	Logger   *log.Logger
}

// NewAPI creates the JSON API handler group.
func NewAPI(opts APIOpts) *API {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &API{
		session:   opts.Session,
		settings:  opts.Settings,
		quotaMax:  opts.QuotaMax,
		logger:    shared.WithLogger(opts.Logger, "component", "api"),
		maxUpload: opts.Session.Limits().MaxFileSize + multipartOverhead,
	}
}

// Mount implements [Handler].
func (a *API) Mount(r Router) {
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(a.health))

	r.Handle(http.MethodGet, "/api/session", http.HandlerFunc(a.getSession))
	r.Handle(http.MethodPost, "/api/analyze", http.HandlerFunc(a.analyze))
	r.Handle(http.MethodPost, "/api/session/reset", http.HandlerFunc(a.reset))

	r.Handle(http.MethodGet, "/api/history", http.HandlerFunc(a.listHistory))
	r.Handle(http.MethodPost, "/api/history/{id}/select", http.HandlerFunc(a.selectHistory))
	r.Handle(http.MethodGet, "/api/history/export", http.HandlerFunc(a.exportHistory))

	r.Handle(http.MethodGet, "/api/quota", http.HandlerFunc(a.quota))

	r.Handle(http.MethodGet, "/api/community", http.HandlerFunc(a.searchCommunity))
	r.Handle(http.MethodPost, "/api/community", http.HandlerFunc(a.addCommunity))
	r.Handle(http.MethodPost, "/api/community/from-result", http.HandlerFunc(a.addFromResult))

	r.Handle(http.MethodGet, "/api/settings", http.HandlerFunc(a.getSettings))
	r.Handle(http.MethodPut, "/api/settings", http.HandlerFunc(a.putSettings))
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	snap := a.session.Snapshot()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "provider": snap.Provider, "state": snap.State.String()})
}

func (a *API) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.Snapshot())
}

func (a *API) analyze(w http.ResponseWriter, r *http.Request) {
	tr := a.session.Translations()
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, fmt.Errorf("%w: request body over %d bytes", shared.ErrFileTooLarge, tooBig.Limit), tr)
			return
		}
		writeError(w, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err), tr)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: multipart field \"file\"", shared.ErrMissingArgument), tr)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err), tr)
		return
	}

	upload := models.AudioFile{
		Name:     header.Filename,
		Size:     header.Size,
		MimeType: tasks.DetectMimeType(header.Filename, header.Header.Get("Content-Type")),
		Data:     data,
	}

	if _, err := a.session.Submit(r.Context(), upload, nil); err != nil {
		writeError(w, err, a.session.Translations())
		return
	}
	writeJSON(w, http.StatusOK, a.session.Snapshot())
}

func (a *API) reset(w http.ResponseWriter, r *http.Request) {
	if err := a.session.AnalyzeAnother(); err != nil {
		writeError(w, err, a.session.Translations())
		return
	}
	writeJSON(w, http.StatusOK, a.session.Snapshot())
}

func (a *API) listHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.Snapshot().History)
}

func (a *API) selectHistory(w http.ResponseWriter, r *http.Request) {
	if _, err := a.session.SelectHistory(r.PathValue("id")); err != nil {
		writeError(w, err, a.session.Translations())
		return
	}
	writeJSON(w, http.StatusOK, a.session.Snapshot())
}

func (a *API) exportHistory(w http.ResponseWriter, r *http.Request) {
	tr := a.session.Translations()
	format, err := formatter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err, tr)
		return
	}

	data, err := formatter.ExportHistory(a.session.Snapshot().History, format, tr)
	if err != nil {
		writeError(w, err, tr)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="genresense_history.%s"`, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (a *API) quota(w http.ResponseWriter, r *http.Request) {
	tr := a.session.Translations()
	state, err := a.session.RefreshQuota(r.Context())
	if err != nil {
		writeError(w, err, tr)
		return
	}
	writeJSON(w, http.StatusOK, QuotaBody{QuotaState: state, Max: a.quotaMax, Message: tr.AnalysesLeft(state.Remaining)})
}

func (a *API) searchCommunity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.Board().Search(r.URL.Query().Get("q")))
}

func (a *API) addCommunity(w http.ResponseWriter, r *http.Request) {
	tr := a.session.Translations()

	var entry models.CommunityEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, err, tr)
		return
	}
	if err := repositories.ValidateEntry(entry); err != nil {
		writeError(w, err, tr)
		return
	}
	writeJSON(w, http.StatusCreated, a.session.Board().Add(entry))
}

func (a *API) addFromResult(w http.ResponseWriter, r *http.Request) {
	tr := a.session.Translations()

	var body AddFromResultBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, tr)
		return
	}
	entry, err := a.session.AddResultToCommunity(body.Title, body.Composer)
	if err != nil {
		writeError(w, err, tr)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (a *API) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.Snapshot().Settings)
}

func (a *API) putSettings(w http.ResponseWriter, r *http.Request) {
	tr := a.session.Translations()

	var body SettingsBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, tr)
		return
	}

	settings := a.session.Snapshot().Settings
	if body.Theme != "" {
		theme, err := models.ParseTheme(body.Theme)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err), tr)
			return
		}
		settings.Theme = theme
	}
	if body.Locale != "" {
		l, err := models.ParseLocale(body.Locale)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err), tr)
			return
		}
		settings.Locale = l
	}

	if err := a.settings.Save(r.Context(), settings); err != nil {
		writeError(w, err, tr)
		return
	}
	a.session.SetSettings(settings)
	writeJSON(w, http.StatusOK, settings)
}

// LoginHandler answers the login endpoint, which is not available yet.
type LoginHandler struct {
	session *tasks.Session
}

// NewLoginHandler creates a [LoginHandler].
func NewLoginHandler(session *tasks.Session) *LoginHandler {
	return &LoginHandler{session: session}
}

// Mount implements [Handler].
func (l *LoginHandler) Mount(r Router) {
	r.Handle(http.MethodPost, "/api/login", l)
}

// ServeHTTP implements [http.Handler].
func (l *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tr := l.session.Translations()
	writeJSON(w, http.StatusNotImplemented, ErrorBody{Error: "NOT_IMPLEMENTED", Message: tr.LoginComingSoon})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error, tr locale.Translations) {
	status, code := classify(err)
	msg := err.Error()
	switch code {
	case "FILE_TOO_LARGE", "UNSUPPORTED_FORMAT", "FILE_TOO_LONG", "DAILY_LIMIT_REACHED", "BUSY", "ANALYSIS_FAILED":
		msg = tr.ErrorMessage(err)
	}
	writeJSON(w, status, ErrorBody{Error: code, Message: msg})
}

// classify maps an error onto an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrFileTooLarge):
		return http.StatusBadRequest, "FILE_TOO_LARGE"
	case errors.Is(err, shared.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT"
	case errors.Is(err, shared.ErrTooLong):
		return http.StatusBadRequest, "FILE_TOO_LONG"
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidFlag):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, shared.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "DAILY_LIMIT_REACHED"
	case errors.Is(err, shared.ErrBusy):
		return http.StatusConflict, "BUSY"
	case errors.Is(err, shared.ErrNoResult):
		return http.StatusConflict, "NO_RESULT"
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, shared.ErrInvalidResponse):
		return http.StatusBadGateway, "ANALYSIS_FAILED"
	case errors.Is(err, shared.ErrSessionClosed):
		return http.StatusServiceUnavailable, "UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
