package embedgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vidembed/internal/domain"
)

func TestGenerate(t *testing.T) {
	g := New(0, 0)
	tests := []struct {
		name string
		req  domain.EmbedRequest
		want string
	}{
		{
			name: "youtube watch url rewritten",
			req:  domain.EmbedRequest{SourceReference: "https://www.youtube.com/watch?v=ABC", Platform: domain.PlatformYouTube},
			want: `<iframe width="560" height="315" src="https://www.youtube.com/embed/ABC" frameborder="0" allow="autoplay; encrypted-media" allowfullscreen></iframe>`,
		},
		{
			name: "dailymotion player url",
			req:  domain.EmbedRequest{SourceReference: "https://www.dailymotion.com/video/x8abc12", Platform: domain.PlatformDailymotion},
			want: `src="https://www.dailymotion.com/embed/video/x8abc12"`,
		},
		{
			name: "local video tag",
			req:  domain.EmbedRequest{SourceReference: "http://localhost:8080/static/videos/a.mp4", Platform: domain.PlatformLocal},
			want: `<video width="560" height="315" src="http://localhost:8080/static/videos/a.mp4" controls autoplay muted loop playsinline></video>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.Generate(context.Background(), tc.req)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if !strings.Contains(got, tc.want) {
				t.Fatalf("markup = %s\nwant to contain %s", got, tc.want)
			}
		})
	}
}

func TestGenerateEscapesReference(t *testing.T) {
	got, err := New(320, 180).Generate(context.Background(), domain.EmbedRequest{
		SourceReference: `https://cdn.example.com/a.mp4"><script>alert(1)</script>`,
		Platform:        domain.PlatformLocal,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("reference not escaped: %s", got)
	}
	if !strings.Contains(got, `width="320" height="180"`) {
		t.Fatalf("size not applied: %s", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	g := New(0, 0)
	if _, err := g.Generate(context.Background(), domain.EmbedRequest{Platform: domain.PlatformLocal}); !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("empty ref err = %v", err)
	}
	_, err := g.Generate(context.Background(), domain.EmbedRequest{SourceReference: "https://vimeo.com/1", Platform: domain.PlatformUnsupported})
	if !errors.Is(err, domain.ErrUnsupportedPlatform) {
		t.Fatalf("unsupported err = %v", err)
	}
}

func TestDailymotionEmbedURL(t *testing.T) {
	tests := map[string]string{
		"https://www.dailymotion.com/video/x8abc12":                 "https://www.dailymotion.com/embed/video/x8abc12",
		"https://www.dailymotion.com/video/x8abc12_some-title?pl=1": "https://www.dailymotion.com/embed/video/x8abc12",
		"https://www.dailymotion.com/embed/video/x8abc12":           "https://www.dailymotion.com/embed/video/x8abc12",
		"https://www.dailymotion.com/playlist/x6hynp":               "https://www.dailymotion.com/playlist/x6hynp",
		"https://www.dailymotion.com/video/":                        "https://www.dailymotion.com/video/",
	}
	for in, want := range tests {
		if got := DailymotionEmbedURL(in); got != want {
			t.Fatalf("DailymotionEmbedURL(%q) = %q, want %q", in, got, want)
		}
	}
}
