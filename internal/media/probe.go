package media

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNoDuration is returned by a prober that cannot find a duration.
var ErrNoDuration = errors.New("media: duration not found")

// Prober reads a duration in seconds from a media stream.
type Prober interface {
	Probe(ctx context.Context, r io.ReadSeeker) (float64, error)
}

// ChainProber tries each prober in order, rewinding the stream between
// attempts, and returns the first success.
type ChainProber []Prober

func (c ChainProber) Probe(ctx context.Context, r io.ReadSeeker) (float64, error) {
	var errs []error
	for _, p := range c {
		if p == nil {
			continue
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return 0, fmt.Errorf("media: rewind: %w", err)
		}
		seconds, err := p.Probe(ctx, r)
		if err == nil {
			return seconds, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return 0, ErrNoDuration
	}
	return 0, errors.Join(errs...)
}
