// Package embedgen renders embed markup for resolved video references. It is
// the server side of the embed-generation collaborator.
package embedgen

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"vidembed/internal/domain"
	"vidembed/internal/embed"
)

const (
	defaultWidth  = 560
	defaultHeight = 315
)

var (
	frameTemplate = template.Must(template.New("frame").Parse(
		`<iframe width="{{.Width}}" height="{{.Height}}" src="{{.Src}}" frameborder="0" allow="autoplay; encrypted-media" allowfullscreen></iframe>`))
	videoTemplate = template.Must(template.New("video").Parse(
		`<video width="{{.Width}}" height="{{.Height}}" src="{{.Src}}" controls autoplay muted loop playsinline></video>`))
)

type markupData struct {
	Width  int
	Height int
	Src    string
}

// Generator renders iframe or video markup per platform.
type Generator struct {
	width  int
	height int
}

// New returns a generator using the given player size; non-positive values
// fall back to 560x315.
func New(width, height int) *Generator {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &Generator{width: width, height: height}
}

// Generate implements domain.EmbedGenerator.
func (g *Generator) Generate(ctx context.Context, req domain.EmbedRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref := strings.TrimSpace(req.SourceReference)
	if ref == "" {
		return "", domain.ErrEmptyInput
	}
	switch req.Platform {
	case domain.PlatformYouTube:
		return g.render(frameTemplate, embed.ToEmbedURL(ref))
	case domain.PlatformDailymotion:
		return g.render(frameTemplate, DailymotionEmbedURL(ref))
	case domain.PlatformLocal:
		return g.render(videoTemplate, ref)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedPlatform, req.Platform)
	}
}

func (g *Generator) render(t *template.Template, src string) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, markupData{Width: g.width, Height: g.height, Src: src}); err != nil {
		return "", fmt.Errorf("embedgen: render: %w", err)
	}
	return buf.String(), nil
}

// DailymotionEmbedURL maps a /video/<id> page URL onto the player URL. Other
// shapes are returned unchanged.
func DailymotionEmbedURL(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	p := strings.TrimSuffix(u.Path, "/")
	if strings.HasPrefix(p, "/embed/video/") {
		return ref
	}
	idx := strings.Index(p, "/video/")
	if idx < 0 {
		return ref
	}
	id := p[idx+len("/video/"):]
	if i := strings.IndexAny(id, "/_"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return ref
	}
	return "https://www.dailymotion.com/embed/video/" + id
}

var _ domain.EmbedGenerator = (*Generator)(nil)
