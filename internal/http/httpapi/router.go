package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/afero"

	"vidembed/internal/http/handlers"
	"vidembed/internal/infra"
	"vidembed/internal/middleware"
)

// Options configures the cross-cutting middleware around the handlers.
type Options struct {
	Logger          infra.Logger
	CORSOrigins     []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
	// StaticFs serves uploaded files under /static; nil disables the route.
	StaticFs afero.Fs
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/widget", app.WidgetPreview)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
			r.Post("/upload", app.Upload)
			r.Post("/generate-embed", app.GenerateEmbed)
		})
		r.Post("/resolve", app.Resolve)
		r.Get("/assets", app.ListAssets)
		r.Get("/assets/{id}", app.GetAsset)
	})

	if opts.StaticFs != nil {
		static := http.StripPrefix("/static/", http.FileServer(afero.NewHttpFs(opts.StaticFs)))
		r.Get("/static/*", static.ServeHTTP)
	}

	return r
}
