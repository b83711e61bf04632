package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"vidembed/internal/domain"
	"vidembed/internal/embed"
	"vidembed/internal/media"
	"vidembed/internal/middleware"
	"vidembed/internal/widget"
	"vidembed/internal/widget/htmldom"
)

const previewAnchor = "vidembed-preview"

// WidgetPreview renders a host page with a mounted widget. The metadata event
// is dispatched when the duration is known, either from the duration query
// parameter or by probing a video held in the local store.
func (a *App) WidgetPreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := strings.TrimSpace(q.Get("video"))
	if ref == "" {
		a.fail(w, r, domain.ErrEmptyInput)
		return
	}
	maxDuration := a.MaxDurationSeconds
	if v, err := strconv.ParseFloat(q.Get("max_duration"), 64); err == nil {
		maxDuration = v
	}
	cfg := domain.NewWidgetConfig(ref,
		domain.WithCTAText(q.Get("cta_text")),
		domain.WithCTALink(q.Get("cta_link")),
		domain.WithHostContainer(previewAnchor),
		domain.WithMaxDuration(maxDuration),
	)

	locale := middleware.LocaleFromContext(r.Context())
	platform := domain.PlatformLocal
	if embed.Classify(ref) == domain.PlatformYouTube {
		platform = domain.PlatformYouTube
	}
	title := cases.Title(localeTag(locale)).String(string(platform)) + " preview"
	doc := htmldom.HostPage(title, previewAnchor)

	inst, err := widget.New(cfg, doc, nil, widget.WithLogger(a.log()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if d, ok := a.previewDuration(r.Context(), q.Get("duration"), ref); ok {
		doc.LoadedMetadata(inst.Media(), d)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Widget-State", inst.State().String())
	if warn, ok := inst.Warning(); ok {
		w.Header().Set("X-Widget-Warning", warn.String())
	}
	w.WriteHeader(http.StatusOK)
	if err := doc.Render(w); err != nil {
		a.log().Error().Err(err).Msg("render widget preview")
	}
}

func (a *App) previewDuration(ctx context.Context, raw, ref string) (float64, bool) {
	if d, err := strconv.ParseFloat(raw, 64); err == nil && d >= 0 {
		return d, true
	}
	if a.Prober == nil || a.Store == nil {
		return 0, false
	}
	prefix := a.Store.URL("")
	if !strings.HasPrefix(ref, prefix) {
		return 0, false
	}
	lm, err := media.Open(a.Store.Fs(), strings.TrimPrefix(ref, prefix))
	if err != nil {
		return 0, false
	}
	if err := media.LoadMetadata(ctx, lm, a.Prober); err != nil {
		a.log().Debug().Err(err).Str("video", ref).Msg("preview duration probe skipped")
		return 0, false
	}
	return lm.Duration()
}
