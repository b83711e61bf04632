package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"vidembed/internal/domain"
	"vidembed/internal/infra"
)

// Options configures a Resolver.
type Options struct {
	Uploader           domain.Uploader
	Generator          domain.EmbedGenerator
	MaxDurationSeconds float64
	Logger             *infra.Logger
}

// Resolver turns a VideoSource into an EmbedResult. It holds no per attempt
// state, so a failed attempt never affects the next one.
type Resolver struct {
	uploader  domain.Uploader
	generator domain.EmbedGenerator
	maxDur    float64
	logger    *infra.Logger
}

// NewResolver builds a resolver. A generator is mandatory; the uploader is
// only needed for local media.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Generator == nil {
		return nil, errors.New("embed: generator is required")
	}
	maxDur := opts.MaxDurationSeconds
	if maxDur <= 0 {
		maxDur = domain.DefaultMaxDurationSeconds
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Resolver{
		uploader:  opts.Uploader,
		generator: opts.Generator,
		maxDur:    maxDur,
		logger:    logger,
	}, nil
}

// MaxDurationSeconds returns the configured duration limit.
func (r *Resolver) MaxDurationSeconds() float64 {
	return r.maxDur
}

// Resolve dispatches on the kind of source.
func (r *Resolver) Resolve(ctx context.Context, src domain.VideoSource) (*domain.EmbedResult, error) {
	if src.IsLocal() {
		return r.ResolveLocal(ctx, src.Local)
	}
	return r.ResolveRemote(ctx, src.RemoteURL)
}

// ResolveRemote classifies url and asks the generator for markup.
func (r *Resolver) ResolveRemote(ctx context.Context, url string) (*domain.EmbedResult, error) {
	if strings.TrimSpace(url) == "" {
		return nil, domain.ErrEmptyInput
	}
	platform := Classify(url)
	ref := url
	switch platform {
	case domain.PlatformYouTube:
		ref = ToEmbedURL(url)
	case domain.PlatformDailymotion:
	default:
		r.logger.Debug().Str("url", url).Msg("unsupported platform")
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, url)
	}
	return r.generate(ctx, ref, platform)
}

// ResolveLocal checks media type and duration before any network traffic,
// then uploads once and generates once.
func (r *Resolver) ResolveLocal(ctx context.Context, media *domain.LocalMedia) (*domain.EmbedResult, error) {
	if media == nil {
		return nil, domain.ErrEmptyInput
	}
	if !media.IsVideo() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMediaType, media.MIMEType)
	}
	seconds, ok := media.Duration()
	if !ok {
		return nil, domain.ErrDurationUnknown
	}
	if err := ValidateDuration(seconds, r.maxDur); err != nil {
		return nil, err
	}
	if r.uploader == nil {
		return nil, fmt.Errorf("%w: no uploader configured", domain.ErrUploadFailed)
	}

	ref, err := r.uploader.Upload(ctx, media)
	if err != nil {
		r.logger.Error().Err(err).Str("name", media.Name).Msg("upload failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("%w: empty asset reference", domain.ErrUploadFailed)
	}
	r.logger.Debug().Str("name", media.Name).Str("ref", ref).Msg("media uploaded")
	return r.generate(ctx, ref, domain.PlatformLocal)
}

func (r *Resolver) generate(ctx context.Context, ref string, platform domain.Platform) (*domain.EmbedResult, error) {
	markup, err := r.generator.Generate(ctx, domain.EmbedRequest{SourceReference: ref, Platform: platform})
	if err != nil {
		r.logger.Error().Err(err).Str("platform", string(platform)).Msg("embed generation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if markup == "" {
		return nil, fmt.Errorf("%w: empty markup", domain.ErrGenerationFailed)
	}
	return &domain.EmbedResult{
		Platform:        platform,
		EmbedMarkup:     markup,
		SourceReference: ref,
	}, nil
}
