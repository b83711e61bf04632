package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"vidembed/internal/domain"
	"vidembed/internal/embed"
	"vidembed/internal/embedgen"
	"vidembed/internal/middleware"
	"vidembed/internal/storage"
)

type stubProber struct {
	seconds float64
	err     error
}

func (p stubProber) Probe(ctx context.Context, r io.ReadSeeker) (float64, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.seconds, nil
}

type memAssets struct {
	mu    sync.Mutex
	items []domain.Asset
	err   error
}

func (m *memAssets) Save(ctx context.Context, a *domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, *a)
	return nil
}

func (m *memAssets) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAssets) ListRecent(ctx context.Context, limit int) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) < limit {
		limit = len(m.items)
	}
	return append([]domain.Asset(nil), m.items[:limit]...), nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := storage.NewFileStore(afero.NewMemMapFs(), "/data", "http://test/static")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	gen := embedgen.New(0, 0)
	resolver, err := embed.NewResolver(embed.Options{Generator: gen, MaxDurationSeconds: 10})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return &App{
		Resolver:           resolver,
		Generator:          gen,
		Store:              store,
		MaxDurationSeconds: 10,
		MaxUploadBytes:     1 << 20,
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	(&App{}).Health(rr, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
}

func TestGenerateEmbed(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantMarkup string
	}{
		{"youtube", `{"videoUrl":"https://www.youtube.com/watch?v=abc","platform":"youtube"}`, http.StatusOK, "", "https://www.youtube.com/embed/abc"},
		{"dailymotion", `{"videoUrl":"https://www.dailymotion.com/video/x7xyz","platform":"dailymotion"}`, http.StatusOK, "", "https://www.dailymotion.com/embed/video/x7xyz"},
		{"local", `{"videoUrl":"http://test/static/videos/a.mp4","platform":"local"}`, http.StatusOK, "", "<video"},
		{"unsupported", `{"videoUrl":"https://vimeo.com/1","platform":"vimeo"}`, http.StatusBadRequest, "unsupported_platform", ""},
		{"empty", `{"videoUrl":"  ","platform":"youtube"}`, http.StatusBadRequest, "empty_input", ""},
		{"malformed", `{`, http.StatusBadRequest, "bad_request", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			app.GenerateEmbed(rr, jsonRequest(http.MethodPost, "/api/generate-embed", tc.body))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.wantStatus, rr.Body.String())
			}
			if tc.wantCode != "" {
				if got := decodeError(t, rr).Error.Code; got != tc.wantCode {
					t.Fatalf("code = %q, want %q", got, tc.wantCode)
				}
				return
			}
			var resp generateEmbedResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !strings.Contains(resp.EmbedCode, tc.wantMarkup) {
				t.Fatalf("embedCode %q missing %q", resp.EmbedCode, tc.wantMarkup)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	app := newTestApp(t)

	rr := httptest.NewRecorder()
	app.Resolve(rr, jsonRequest(http.MethodPost, "/api/resolve", `{"videoUrl":"https://www.dailymotion.com/video/x7xyz"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	var result domain.EmbedResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Platform != domain.PlatformDailymotion || result.SourceReference != "https://www.dailymotion.com/video/x7xyz" {
		t.Fatalf("unexpected result %+v", result)
	}

	rr = httptest.NewRecorder()
	app.Resolve(rr, jsonRequest(http.MethodPost, "/api/resolve", `{"videoUrl":"https://vimeo.com/1"}`))
	if rr.Code != http.StatusBadRequest || decodeError(t, rr).Error.Code != "unsupported_platform" {
		t.Fatalf("unsupported url not rejected: %d", rr.Code)
	}
}

func TestErrorMessagesAreLocalized(t *testing.T) {
	app := newTestApp(t)
	req := jsonRequest(http.MethodPost, "/api/resolve", `{"videoUrl":""}`)
	req = req.WithContext(context.WithValue(req.Context(), middleware.LocaleKey, "id"))

	rr := httptest.NewRecorder()
	app.Resolve(rr, req)
	body := decodeError(t, rr)
	if body.Error.Code != "empty_input" || body.Error.Message != "URL atau berkas video wajib diisi." {
		t.Fatalf("unexpected body %+v", body)
	}
	if got := localize("en", "duration_exceeded", 10.0); got != "Video duration exceeds 10 seconds. Consider using a shorter video." {
		t.Fatalf("localize = %q", got)
	}
}

func multipartUpload(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	_, _ = part.Write(data)
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func storedVideos(t *testing.T, app *App) int {
	t.Helper()
	entries, err := afero.ReadDir(app.Store.Fs(), uploadDir)
	if err != nil {
		return 0
	}
	return len(entries)
}

func TestUploadStoresVideo(t *testing.T) {
	app := newTestApp(t)
	assets := &memAssets{}
	app.Assets = assets
	app.Prober = stubProber{seconds: 8}

	rr := httptest.NewRecorder()
	app.Upload(rr, multipartUpload(t, "video", "clip.mp4", "video/mp4", []byte("fake mp4 payload")))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	var resp uploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.VideoURL, "http://test/static/videos/") || !strings.HasSuffix(resp.VideoURL, ".mp4") {
		t.Fatalf("videoUrl = %q", resp.VideoURL)
	}
	if resp.DurationSeconds == nil || *resp.DurationSeconds != 8 {
		t.Fatalf("duration = %v", resp.DurationSeconds)
	}
	if storedVideos(t, app) != 1 {
		t.Fatalf("file not stored")
	}
	if len(assets.items) != 1 || assets.items[0].ID != resp.ID {
		t.Fatalf("asset not recorded: %+v", assets.items)
	}
}

func TestUploadSniffsGenericType(t *testing.T) {
	app := newTestApp(t)
	rr := httptest.NewRecorder()
	app.Upload(rr, multipartUpload(t, "video", "clip.webm", "application/octet-stream", []byte("data")))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		filename   string
		mime       string
		size       int
		prober     *stubProber
		limit      int64
		wantStatus int
		wantCode   string
	}{
		{"non video", "video", "notes.txt", "text/plain", 10, nil, 0, http.StatusUnsupportedMediaType, "invalid_media_type"},
		{"missing field", "file", "clip.mp4", "video/mp4", 10, nil, 0, http.StatusBadRequest, "missing_video"},
		{"too long", "video", "clip.mp4", "video/mp4", 10, &stubProber{seconds: 12}, 0, http.StatusUnprocessableEntity, "duration_exceeded"},
		{"too large", "video", "clip.mp4", "video/mp4", 64, nil, 16, http.StatusRequestEntityTooLarge, "file_too_large"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			if tc.prober != nil {
				app.Prober = *tc.prober
			}
			if tc.limit > 0 {
				app.MaxUploadBytes = tc.limit
			}
			rr := httptest.NewRecorder()
			app.Upload(rr, multipartUpload(t, tc.field, tc.filename, tc.mime, bytes.Repeat([]byte("x"), tc.size)))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.wantStatus, rr.Body.String())
			}
			if got := decodeError(t, rr).Error.Code; got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
			if n := storedVideos(t, app); n != 0 {
				t.Fatalf("rejected upload left %d files", n)
			}
		})
	}
}

func TestUploadAcceptsWhenProbeFails(t *testing.T) {
	app := newTestApp(t)
	app.Prober = stubProber{err: errors.New("no moov")}
	rr := httptest.NewRecorder()
	app.Upload(rr, multipartUpload(t, "video", "clip.mov", "video/quicktime", []byte("data")))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	var resp uploadResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.DurationSeconds != nil {
		t.Fatalf("duration should be unknown, got %v", *resp.DurationSeconds)
	}
}

func TestWidgetPreview(t *testing.T) {
	app := newTestApp(t)

	rr := httptest.NewRecorder()
	app.WidgetPreview(rr, httptest.NewRequest(http.MethodGet, "/widget?video=https://www.youtube.com/watch?v%3Dabc&cta_link=https://shop.test", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	page := rr.Body.String()
	for _, want := range []string{`<iframe`, `src="https://www.youtube.com/embed/abc"`, `Learn More`, `id="vidembed-preview"`, `<title>Youtube preview</title>`} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q:\n%s", want, page)
		}
	}
	if rr.Header().Get("X-Widget-State") != "mounted" {
		t.Fatalf("state = %q", rr.Header().Get("X-Widget-State"))
	}

	rr = httptest.NewRecorder()
	app.WidgetPreview(rr, httptest.NewRequest(http.MethodGet, "/widget?video=http://cdn.test/a.mp4&cta_text=Buy&duration=12", nil))
	if rr.Header().Get("X-Widget-State") != "duration_warned" {
		t.Fatalf("state = %q", rr.Header().Get("X-Widget-State"))
	}
	if !strings.Contains(rr.Header().Get("X-Widget-Warning"), "exceeds 10 seconds") {
		t.Fatalf("warning = %q", rr.Header().Get("X-Widget-Warning"))
	}
	if !strings.Contains(rr.Body.String(), "<video") || !strings.Contains(rr.Body.String(), ">Buy<") {
		t.Fatalf("unexpected page %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	app.WidgetPreview(rr, httptest.NewRequest(http.MethodGet, "/widget", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing video status = %d", rr.Code)
	}
}

func TestWidgetPreviewProbesStoredVideo(t *testing.T) {
	app := newTestApp(t)
	app.Prober = stubProber{seconds: 30}
	key, _, err := app.Store.Put(context.Background(), "videos", "long.mp4", strings.NewReader("data"), 0)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	rr := httptest.NewRecorder()
	app.WidgetPreview(rr, httptest.NewRequest(http.MethodGet, "/widget?video="+app.Store.URL(key), nil))
	if rr.Header().Get("X-Widget-State") != "duration_warned" {
		t.Fatalf("state = %q", rr.Header().Get("X-Widget-State"))
	}
}

func TestAssets(t *testing.T) {
	app := newTestApp(t)

	rr := httptest.NewRecorder()
	app.ListAssets(rr, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status without registry = %d", rr.Code)
	}

	app.Assets = &memAssets{items: []domain.Asset{{ID: "a1", URL: "http://test/static/videos/a1.mp4"}}}
	rr = httptest.NewRecorder()
	app.ListAssets(rr, httptest.NewRequest(http.MethodGet, "/api/assets?limit=5", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var payload struct {
		Items []domain.Asset `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].ID != "a1" {
		t.Fatalf("items = %+v", payload.Items)
	}
}
