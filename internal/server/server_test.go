package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/repositories"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/desertthunder/genresense/internal/tasks"
	tu "github.com/desertthunder/genresense/internal/testing"
)

type apiFixture struct {
	session    *tasks.Session
	classifier *tu.MockClassifier
	settings   *repositories.SettingsStore
	handler    http.Handler
}

func newAPIFixture(t *testing.T, perDay int) *apiFixture {
	t.Helper()

	store := tu.MustStore(t)
	logger := tu.DiscardLogger()
	limits := tasks.DefaultLimits()
	limits.MaxFileSize = 1024

	classifier := tu.NewMockClassifier()
	session, err := tasks.NewSession(context.Background(), tasks.SessionOpts{
		Classifier: classifier,
		Store:      store,
		Quota:      repositories.NewQuotaManager(store, perDay, logger),
		Limits:     limits,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	t.Cleanup(session.Close)

	settings := repositories.NewSettingsStore(store, logger)
	router := NewBasicRouter()
	router.Use(Recoverer(logger))
	router.Handler(NewAPI(APIOpts{Session: session, Settings: settings, QuotaMax: perDay, Logger: logger}))
	router.Handler(NewLoginHandler(session))

	return &apiFixture{session: session, classifier: classifier, settings: settings, handler: router}
}

func (f *apiFixture) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

func (f *apiFixture) upload(t *testing.T, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write(data)
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return v
}

type sessionBody struct {
	State    string                 `json:"state"`
	Result   *models.AnalysisResult `json:"result"`
	Error    string                 `json:"error"`
	History  []models.HistoryItem   `json:"history"`
	Quota    models.QuotaState      `json:"quota"`
	Settings models.Settings        `json:"settings"`
	Provider string                 `json:"provider"`
}

func TestBasicRouter(t *testing.T) {
	t.Run("applies middleware in registration order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.HandleFunc(http.MethodGet, "/ping", func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order: %v", order)
		}
	})

	t.Run("rejects wrong method", func(t *testing.T) {
		router := NewBasicRouter()
		router.HandleFunc(http.MethodGet, "/ping", func(w http.ResponseWriter, r *http.Request) {})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", w.Code)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("recoverer returns 500", func(t *testing.T) {
		h := Recoverer(tu.DiscardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}
	})

	t.Run("request logger passes status through", func(t *testing.T) {
		var buf bytes.Buffer
		logger := shared.NewLogger(&buf)
		h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tea", nil))
		if w.Code != http.StatusTeapot {
			t.Errorf("expected 418, got %d", w.Code)
		}
		if !strings.Contains(buf.String(), "/tea") {
			t.Errorf("expected path in log output, got %q", buf.String())
		}
	})

	t.Run("cors answers preflight", func(t *testing.T) {
		router := NewBasicRouter()
		router.HandleFunc(http.MethodPost, "/api/analyze", func(w http.ResponseWriter, r *http.Request) {})
		h := CORS("http://localhost:5173")(router)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/analyze", nil))
		if w.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("unexpected origin header %q", got)
		}
	})

	t.Run("cors disabled without origin", func(t *testing.T) {
		h := CORS("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no origin header, got %q", got)
		}
	})
}

func TestAPI_Analyze(t *testing.T) {
	t.Run("success returns result and records history", func(t *testing.T) {
		f := newAPIFixture(t, 20)

		w := f.upload(t, "song.mp3", []byte("not really mp3"))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		body := decode[sessionBody](t, w)
		if body.State != "result" {
			t.Errorf("expected result state, got %q", body.State)
		}
		if body.Result == nil || body.Result.Major().Genre != "Indie Rock" {
			t.Errorf("unexpected result %+v", body.Result)
		}
		if len(body.History) != 1 || body.History[0].FileName != "song.mp3" {
			t.Errorf("expected one history item, got %+v", body.History)
		}
		if body.Quota.Remaining != 19 {
			t.Errorf("expected 19 remaining, got %d", body.Quota.Remaining)
		}
	})

	tests := []struct {
		name   string
		file   string
		data   []byte
		status int
		code   string
	}{
		{name: "unsupported type", file: "notes.txt", data: []byte("hello"), status: http.StatusBadRequest, code: "UNSUPPORTED_FORMAT"},
		{name: "too large", file: "big.mp3", data: make([]byte, 2048), status: http.StatusBadRequest, code: "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t, 20)

			w := f.upload(t, tt.file, tt.data)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			body := decode[ErrorBody](t, w)
			if body.Error != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, body.Error)
			}
			if body.Message == "" {
				t.Error("expected a localized message")
			}
			if f.classifier.Calls() != 0 {
				t.Error("rejected upload must not reach the classifier")
			}
		})
	}

	t.Run("missing file field", func(t *testing.T) {
		f := newAPIFixture(t, 20)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("other", "x")
		mw.Close()

		r := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
		r.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		f.handler.ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("daily limit", func(t *testing.T) {
		f := newAPIFixture(t, 1)

		if w := f.upload(t, "a.mp3", []byte("x")); w.Code != http.StatusOK {
			t.Fatalf("first upload failed: %d %s", w.Code, w.Body.String())
		}
		w := f.upload(t, "b.mp3", []byte("x"))
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", w.Code)
		}
		if body := decode[ErrorBody](t, w); body.Error != "DAILY_LIMIT_REACHED" {
			t.Errorf("unexpected code %s", body.Error)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newAPIFixture(t, 20)
		f.classifier.Err = shared.ErrInvalidResponse

		w := f.upload(t, "a.mp3", []byte("x"))
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		if f.session.Snapshot().Quota.Remaining != 20 {
			t.Error("failed analysis must not consume quota")
		}
	})
}

func TestAPI_History(t *testing.T) {
	f := newAPIFixture(t, 20)
	if w := f.upload(t, "a.mp3", []byte("x")); w.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/session/reset", ""); w.Code != http.StatusOK {
		t.Fatalf("reset failed: %d", w.Code)
	}

	items := decode[[]models.HistoryItem](t, f.do(t, http.MethodGet, "/api/history", ""))
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	t.Run("select shows stored result", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/history/"+items[0].ID+"/select", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if body := decode[sessionBody](t, w); body.State != "result" {
			t.Errorf("expected result state, got %s", body.State)
		}
		if f.classifier.Calls() != 1 {
			t.Error("selecting history must not call the classifier")
		}
	})

	t.Run("select unknown id", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/history/nope/select", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("export csv", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/history/export?format=csv", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("unexpected content type %q", ct)
		}
		if !strings.Contains(w.Body.String(), "a.mp3") {
			t.Errorf("expected file name in export, got %q", w.Body.String())
		}
	})

	t.Run("export unknown format", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/history/export?format=xml", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestAPI_Quota(t *testing.T) {
	f := newAPIFixture(t, 5)

	w := f.do(t, http.MethodGet, "/api/quota", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode[QuotaBody](t, w)
	if body.Remaining != 5 || body.Max != 5 {
		t.Errorf("unexpected quota %+v", body)
	}
	if !strings.Contains(body.Message, "5") {
		t.Errorf("expected count in message, got %q", body.Message)
	}
}

func TestAPI_Community(t *testing.T) {
	t.Run("search", func(t *testing.T) {
		f := newAPIFixture(t, 20)

		all := decode[[]models.CommunityEntry](t, f.do(t, http.MethodGet, "/api/community", ""))
		if len(all) != len(repositories.DefaultCommunityEntries()) {
			t.Errorf("expected seed entries, got %d", len(all))
		}

		none := decode[[]models.CommunityEntry](t, f.do(t, http.MethodGet, "/api/community?q=zzzz-no-match", ""))
		if len(none) != 0 {
			t.Errorf("expected no matches, got %d", len(none))
		}
	})

	t.Run("add", func(t *testing.T) {
		f := newAPIFixture(t, 20)

		w := f.do(t, http.MethodPost, "/api/community", `{"title":"Song","composer":"Someone","genre1":"Jazz"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		entry := decode[models.CommunityEntry](t, w)
		if entry.ID == "" || entry.Genre1 != "Jazz" {
			t.Errorf("unexpected entry %+v", entry)
		}
		if f.session.Board().All()[0].ID != entry.ID {
			t.Error("new entry should be first")
		}
	})

	t.Run("add missing fields", func(t *testing.T) {
		f := newAPIFixture(t, 20)

		w := f.do(t, http.MethodPost, "/api/community", `{"title":"Song"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("from result without result", func(t *testing.T) {
		f := newAPIFixture(t, 20)

		w := f.do(t, http.MethodPost, "/api/community/from-result", `{"title":"Song","composer":"Someone"}`)
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", w.Code)
		}
	})

	t.Run("from result", func(t *testing.T) {
		f := newAPIFixture(t, 20)
		f.upload(t, "a.mp3", []byte("x"))

		w := f.do(t, http.MethodPost, "/api/community/from-result", `{"title":"Song","composer":"Someone"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		entry := decode[models.CommunityEntry](t, w)
		if entry.Genre1 != "Indie Rock" || entry.Genre2 != "Alternative" || entry.Genre3 != "Shoegaze" {
			t.Errorf("expected result genres, got %+v", entry)
		}
	})
}

func TestAPI_Settings(t *testing.T) {
	f := newAPIFixture(t, 20)

	w := f.do(t, http.MethodPut, "/api/settings", `{"locale":"ko","theme":"dark"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	got := decode[models.Settings](t, f.do(t, http.MethodGet, "/api/settings", ""))
	if got.Locale != models.LocaleKorean || got.Theme != models.ThemeDark {
		t.Errorf("unexpected settings %+v", got)
	}

	stored, err := f.settings.Load(context.Background(), models.LocaleEnglish)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if stored != got {
		t.Errorf("settings were not persisted: %+v", stored)
	}

	t.Run("invalid theme", func(t *testing.T) {
		w := f.do(t, http.MethodPut, "/api/settings", `{"theme":"purple"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("messages follow locale", func(t *testing.T) {
		w := f.upload(t, "notes.txt", []byte("x"))
		body := decode[ErrorBody](t, w)
		if body.Message != f.session.Translations().Errors.UnsupportedFormat {
			t.Errorf("expected localized message, got %q", body.Message)
		}
	})
}

func TestLoginHandler(t *testing.T) {
	f := newAPIFixture(t, 20)

	w := f.do(t, http.MethodPost, "/api/login", "")
	if w.Code != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", w.Code)
	}
	if body := decode[ErrorBody](t, w); body.Message == "" {
		t.Error("expected coming soon message")
	}
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t, 20)

	w := f.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decode[map[string]string](t, w); body["provider"] != "mock" {
		t.Errorf("unexpected body %+v", body)
	}
}
