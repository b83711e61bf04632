package domain

// Platform enumerates the recognized categories of a video source.
type Platform string

const (
	PlatformYouTube     Platform = "youtube"
	PlatformDailymotion Platform = "dailymotion"
	PlatformLocal       Platform = "local"
	PlatformUnsupported Platform = "unsupported"
)

// Supported reports whether embed markup may be requested for p.
func (p Platform) Supported() bool {
	switch p {
	case PlatformYouTube, PlatformDailymotion, PlatformLocal:
		return true
	default:
		return false
	}
}

// ParsePlatform maps a wire value back onto a Platform. Unknown values map to
// PlatformUnsupported.
func ParsePlatform(s string) Platform {
	p := Platform(s)
	if p.Supported() {
		return p
	}
	return PlatformUnsupported
}
