package embed

import (
	"fmt"
	"strings"

	"vidembed/internal/domain"
)

// Classify sniffs the platform from plain substrings. YouTube wins over
// Dailymotion when both appear; the URL is never parsed.
func Classify(url string) domain.Platform {
	switch {
	case strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be"):
		return domain.PlatformYouTube
	case strings.Contains(url, "dailymotion.com"):
		return domain.PlatformDailymotion
	default:
		return domain.PlatformUnsupported
	}
}

// ToEmbedURL rewrites a YouTube watch URL into its embed form. URLs without
// the watch marker are returned unchanged.
func ToEmbedURL(url string) string {
	return strings.Replace(url, "watch?v=", "embed/", 1)
}

// ValidateDuration fails when duration is strictly greater than max.
func ValidateDuration(durationSeconds, maxSeconds float64) error {
	if durationSeconds > maxSeconds {
		return fmt.Errorf("%w: %.2fs is longer than %.0fs", domain.ErrDurationExceeded, durationSeconds, maxSeconds)
	}
	return nil
}
