package widget

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"vidembed/internal/domain"
	"vidembed/internal/embed"
	"vidembed/internal/infra"
)

// State is the lifecycle state of an Instance.
type State int

const (
	StateConstructing State = iota
	StateMounted
	StateDurationWarned
)

func (s State) String() string {
	switch s {
	case StateConstructing:
		return "constructing"
	case StateMounted:
		return "mounted"
	case StateDurationWarned:
		return "duration_warned"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	classContainer = "container"
	classVideo     = "video"
	classCTA       = "cta"

	frameAllow = "autoplay; encrypted-media"
)

// Warning describes a non fatal duration violation.
type Warning struct {
	DurationSeconds    float64
	MaxDurationSeconds float64
}

func (w Warning) String() string {
	return fmt.Sprintf("Video duration exceeds %v seconds. Consider using a shorter video.", w.MaxDurationSeconds)
}

// Option customises an Instance.
type Option func(*Instance)

// WithLogger routes warnings to logger.
func WithLogger(logger *infra.Logger) Option {
	return func(i *Instance) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithWarningHandler registers fn to receive duration warnings.
func WithWarningHandler(fn func(Warning)) Option {
	return func(i *Instance) { i.onWarning = fn }
}

// Instance owns one widget subtree for its whole lifetime.
type Instance struct {
	cfg    domain.WidgetConfig
	target RenderTarget
	nav    domain.Navigator

	container Element
	media     MediaElement
	cta       Control
	platform  domain.Platform

	mu       sync.Mutex
	state    State
	checked  bool
	warning  *Warning
	observed float64

	logger    *infra.Logger
	onWarning func(Warning)
}

// New builds the widget elements, wires the CTA and the duration observer,
// and attaches the container under the configured host id. A missing host
// element is not an error: the instance stays in Constructing and can be
// mounted later.
func New(cfg domain.WidgetConfig, target RenderTarget, nav domain.Navigator, opts ...Option) (*Instance, error) {
	if target == nil {
		return nil, fmt.Errorf("widget: render target is required")
	}
	nop := zerolog.Nop()
	inst := &Instance{
		cfg:    cfg,
		target: target,
		nav:    nav,
		state:  StateConstructing,
		logger: &nop,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(inst)
		}
	}
	inst.build()
	inst.Mount()
	return inst, nil
}

func (i *Instance) build() {
	ref := i.cfg.VideoReference()
	i.container = i.target.CreateContainer(classContainer)
	if embed.Classify(ref) == domain.PlatformYouTube {
		i.platform = domain.PlatformYouTube
		i.media = i.target.CreateFrame(embed.ToEmbedURL(ref), frameAllow, classVideo)
	} else {
		i.platform = domain.PlatformLocal
		i.media = i.target.CreateVideo(ref, PlaybackOptions{
			Muted:       true,
			Loop:        true,
			Autoplay:    true,
			PlaysInline: true,
		}, classVideo)
	}
	i.cta = i.target.CreateButton(i.cfg.CTAText(), classCTA)
	i.container.Append(i.media, i.cta)

	i.cta.OnClick(i.handleClick)
	i.media.OnLoadedMetadata(i.handleMetadata)
}

// Mount attaches the container under the configured host id. It reports
// whether the instance is mounted afterwards; calling it again once mounted
// is a no-op.
func (i *Instance) Mount() bool {
	return i.MountAt(i.cfg.HostContainerID())
}

// MountAt attaches the container under anchorID, for hosts that create the
// anchor after the widget.
func (i *Instance) MountAt(anchorID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state != StateConstructing {
		return true
	}
	if anchorID == "" || !i.target.Attach(anchorID, i.container) {
		i.logger.Debug().Str("container_id", anchorID).Msg("widget host container not found")
		return false
	}
	i.state = StateMounted
	if i.warning != nil {
		i.state = StateDurationWarned
	}
	return true
}

func (i *Instance) handleClick() {
	link := i.cfg.CTALink()
	if link == "" || i.nav == nil {
		return
	}
	i.nav.Open(link)
}

func (i *Instance) handleMetadata(durationSeconds float64) {
	i.mu.Lock()
	if i.checked {
		i.mu.Unlock()
		return
	}
	i.checked = true
	i.observed = durationSeconds
	err := embed.ValidateDuration(durationSeconds, i.cfg.MaxDurationSeconds())
	if err == nil {
		i.mu.Unlock()
		return
	}
	w := Warning{DurationSeconds: durationSeconds, MaxDurationSeconds: i.cfg.MaxDurationSeconds()}
	i.warning = &w
	if i.state == StateMounted {
		i.state = StateDurationWarned
	}
	handler := i.onWarning
	i.mu.Unlock()

	i.logger.Warn().
		Float64("duration_seconds", durationSeconds).
		Float64("max_duration_seconds", w.MaxDurationSeconds).
		Str("video", i.cfg.VideoReference()).
		Msg(w.String())
	if handler != nil {
		handler(w)
	}
}

// State returns the current lifecycle state.
func (i *Instance) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Warning returns the duration warning, if one was raised.
func (i *Instance) Warning() (Warning, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.warning == nil {
		return Warning{}, false
	}
	return *i.warning, true
}

// DurationChecked reports whether the metadata observer already ran.
func (i *Instance) DurationChecked() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.checked
}

func (i *Instance) Config() domain.WidgetConfig { return i.cfg }
func (i *Instance) Container() Element          { return i.container }
func (i *Instance) Media() MediaElement         { return i.media }
func (i *Instance) CTA() Control                { return i.cta }

// Platform is youtube when the reference was rendered as a frame, local otherwise.
func (i *Instance) Platform() domain.Platform { return i.platform }
