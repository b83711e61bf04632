package media

import (
	"context"
	"fmt"

	"vidembed/internal/domain"
)

// LoadMetadata reads the duration of m through a transient handle and
// delivers the single metadata notification. The handle is closed before
// LoadMetadata returns on every path. Non video types are rejected before
// anything is read.
func LoadMetadata(ctx context.Context, m *domain.LocalMedia, p Prober) error {
	if m == nil || m.Blob == nil {
		return domain.ErrEmptyInput
	}
	if !m.IsVideo() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidMediaType, m.MIMEType)
	}
	if _, ok := m.Duration(); ok {
		return domain.ErrMetadataLoaded
	}
	seconds, err := probeOnce(ctx, m, p)
	if err != nil {
		return err
	}
	return m.MetadataLoaded(seconds)
}

func probeOnce(ctx context.Context, m *domain.LocalMedia, p Prober) (float64, error) {
	rc, err := m.Blob.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	seconds, err := p.Probe(ctx, rc)
	if err != nil {
		return 0, fmt.Errorf("media: probe %s: %w", m.Name, err)
	}
	return seconds, nil
}
