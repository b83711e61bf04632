package domain

import (
	"errors"
	"math"
	"testing"
)

func TestLocalMediaDurationLifecycle(t *testing.T) {
	m := NewLocalMedia("clip.mp4", "video/mp4", 10, nil)
	if _, ok := m.Duration(); ok {
		t.Fatalf("duration known before metadata")
	}
	if err := m.MetadataLoaded(7.5); err != nil {
		t.Fatalf("MetadataLoaded: %v", err)
	}
	if d, ok := m.Duration(); !ok || d != 7.5 {
		t.Fatalf("Duration() = %v, %v", d, ok)
	}
	if err := m.MetadataLoaded(3); !errors.Is(err, ErrMetadataLoaded) {
		t.Fatalf("second notification err = %v", err)
	}
	if d, _ := m.Duration(); d != 7.5 {
		t.Fatalf("second notification overwrote duration: %v", d)
	}
}

func TestLocalMediaRejectsInvalidDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
	}{
		{"negative", -1},
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewLocalMedia("clip.mp4", "video/mp4", 10, nil)
			if err := m.MetadataLoaded(tc.seconds); err == nil {
				t.Fatalf("duration %v accepted", tc.seconds)
			}
			if _, ok := m.Duration(); ok {
				t.Fatalf("duration became known after rejected notification")
			}
			if err := m.MetadataLoaded(4); err != nil {
				t.Fatalf("valid notification after rejection: %v", err)
			}
		})
	}
}

func TestIsVideo(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"video/mp4", true},
		{"video/webm", true},
		{"image/png", false},
		{"Video/mp4", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := NewLocalMedia("f", tc.mime, 0, nil).IsVideo(); got != tc.want {
			t.Fatalf("IsVideo(%q) = %v, want %v", tc.mime, got, tc.want)
		}
	}
	var nilMedia *LocalMedia
	if nilMedia.IsVideo() {
		t.Fatalf("nil media reported as video")
	}
}

func TestVideoSource(t *testing.T) {
	if RemoteSource("https://youtu.be/x").IsLocal() {
		t.Fatalf("remote source reported local")
	}
	if !LocalSource(NewLocalMedia("a", "video/mp4", 0, nil)).IsLocal() {
		t.Fatalf("local source reported remote")
	}
}

func TestNewWidgetConfig(t *testing.T) {
	cfg := NewWidgetConfig("https://youtu.be/x")
	if cfg.CTAText() != "Learn More" || cfg.MaxDurationSeconds() != 10 || cfg.CTALink() != "" || cfg.HostContainerID() != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	cfg = NewWidgetConfig("clip.mp4",
		WithCTAText("Shop"),
		WithCTALink("https://shop.test"),
		WithHostContainer("slot"),
		WithMaxDuration(30),
		nil,
	)
	if cfg.VideoReference() != "clip.mp4" || cfg.CTAText() != "Shop" || cfg.CTALink() != "https://shop.test" || cfg.HostContainerID() != "slot" || cfg.MaxDurationSeconds() != 30 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}

	cfg = NewWidgetConfig("clip.mp4", WithCTAText(""), WithMaxDuration(0), WithMaxDuration(-5))
	if cfg.CTAText() != DefaultCTAText || cfg.MaxDurationSeconds() != DefaultMaxDurationSeconds {
		t.Fatalf("empty overrides replaced defaults: %+v", cfg)
	}
}

func TestParsePlatform(t *testing.T) {
	for _, p := range []Platform{PlatformYouTube, PlatformDailymotion, PlatformLocal} {
		if ParsePlatform(string(p)) != p || !p.Supported() {
			t.Fatalf("platform %q not round-tripped", p)
		}
	}
	for _, raw := range []string{"", "vimeo", "YouTube", "unsupported"} {
		if got := ParsePlatform(raw); got != PlatformUnsupported {
			t.Fatalf("ParsePlatform(%q) = %q", raw, got)
		}
	}
}
