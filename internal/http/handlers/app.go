package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"vidembed/internal/domain"
	"vidembed/internal/embed"
	"vidembed/internal/infra"
	"vidembed/internal/media"
	"vidembed/internal/middleware"
	"vidembed/internal/storage"
)

// App carries the dependencies shared by the HTTP handlers.
type App struct {
	Resolver  *embed.Resolver
	Generator domain.EmbedGenerator
	Store     *storage.FileStore
	// Prober is optional; without it uploads are accepted without a duration check.
	Prober media.Prober
	// Assets is optional; nil disables the asset registry endpoints.
	Assets domain.AssetRepository
	Logger *infra.Logger

	MaxDurationSeconds float64
	MaxUploadBytes     int64
}

func (a *App) log() *infra.Logger {
	if a.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return a.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// error writes the standard error envelope with a message localized for the request.
func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code string, args ...any) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = localize(middleware.LocaleFromContext(r.Context()), code, args...)
	a.json(w, status, body)
}

type errorKind struct {
	err    error
	status int
	code   string
}

var errorKinds = []errorKind{
	{domain.ErrEmptyInput, http.StatusBadRequest, "empty_input"},
	{domain.ErrInvalidMediaType, http.StatusUnsupportedMediaType, "invalid_media_type"},
	{domain.ErrUnsupportedPlatform, http.StatusBadRequest, "unsupported_platform"},
	{domain.ErrDurationExceeded, http.StatusUnprocessableEntity, "duration_exceeded"},
	{domain.ErrDurationUnknown, http.StatusUnprocessableEntity, "duration_unknown"},
	{domain.ErrUploadFailed, http.StatusBadGateway, "upload_failed"},
	{domain.ErrGenerationFailed, http.StatusBadGateway, "generation_failed"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{storage.ErrTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
}

// fail maps an error kind onto its status and code. Unknown errors are logged and reported as internal.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind, ok := lo.Find(errorKinds, func(k errorKind) bool { return errors.Is(err, k.err) })
	if !ok {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.error(w, r, http.StatusRequestEntityTooLarge, "file_too_large")
			return
		}
		a.log().Error().Err(err).Str("path", r.URL.Path).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("request failed")
		a.error(w, r, http.StatusInternalServerError, "internal")
		return
	}
	if kind.code == "duration_exceeded" {
		a.error(w, r, kind.status, kind.code, a.MaxDurationSeconds)
		return
	}
	a.error(w, r, kind.status, kind.code)
}

const maxJSONBody = 1 << 20

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v)
}
