package domain

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/samber/mo"
)

// VideoMIMEPrefix is the media-type prefix every local upload must carry.
const VideoMIMEPrefix = "video/"

// Blob is an opaque handle to a locally selected media file. Each Open call
// returns a fresh transient reader that the caller must close.
type Blob interface {
	Open() (io.ReadSeekCloser, error)
}

// LocalMedia is a locally selected file whose duration becomes known only
// after its metadata has been read. The zero duration state is unknown.
type LocalMedia struct {
	Name     string
	MIMEType string
	Size     int64
	Blob     Blob

	duration mo.Option[float64]
}

// NewLocalMedia returns a LocalMedia with an unknown duration.
func NewLocalMedia(name, mimeType string, size int64, blob Blob) *LocalMedia {
	return &LocalMedia{
		Name:     name,
		MIMEType: mimeType,
		Size:     size,
		Blob:     blob,
		duration: mo.None[float64](),
	}
}

// IsVideo reports whether the declared type carries the video media prefix.
func (m *LocalMedia) IsVideo() bool {
	return m != nil && strings.HasPrefix(m.MIMEType, VideoMIMEPrefix)
}

// Duration returns the loaded duration in seconds and whether it is known.
func (m *LocalMedia) Duration() (float64, bool) {
	if m == nil {
		return 0, false
	}
	return m.duration.Get()
}

// MetadataLoaded delivers the single metadata notification. Later calls fail
// with ErrMetadataLoaded and leave the first value in place.
func (m *LocalMedia) MetadataLoaded(seconds float64) error {
	if m.duration.IsPresent() {
		return ErrMetadataLoaded
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("invalid duration %v", seconds)
	}
	m.duration = mo.Some(seconds)
	return nil
}

// VideoSource is either a remote URL or a local media file. Exactly one of
// the two is set.
type VideoSource struct {
	RemoteURL string
	Local     *LocalMedia
}

// RemoteSource wraps a user supplied URL.
func RemoteSource(url string) VideoSource {
	return VideoSource{RemoteURL: url}
}

// LocalSource wraps a local media handle.
func LocalSource(m *LocalMedia) VideoSource {
	return VideoSource{Local: m}
}

// IsLocal reports whether the source refers to a local file.
func (s VideoSource) IsLocal() bool {
	return s.Local != nil
}
