package domain

const (
	DefaultCTAText            = "Learn More"
	DefaultMaxDurationSeconds = 10.0
)

// WidgetConfig configures one widget instance. It is immutable once built by
// NewWidgetConfig.
type WidgetConfig struct {
	videoReference     string
	ctaText            string
	ctaLink            string
	hostContainerID    string
	maxDurationSeconds float64
}

// WidgetOption overrides a single WidgetConfig default.
type WidgetOption func(*WidgetConfig)

// NewWidgetConfig applies the defaults and then every override in order.
// Empty overrides keep the default.
func NewWidgetConfig(videoReference string, opts ...WidgetOption) WidgetConfig {
	cfg := WidgetConfig{
		videoReference:     videoReference,
		ctaText:            DefaultCTAText,
		maxDurationSeconds: DefaultMaxDurationSeconds,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func WithCTAText(text string) WidgetOption {
	return func(c *WidgetConfig) {
		if text != "" {
			c.ctaText = text
		}
	}
}

func WithCTALink(link string) WidgetOption {
	return func(c *WidgetConfig) { c.ctaLink = link }
}

func WithHostContainer(id string) WidgetOption {
	return func(c *WidgetConfig) { c.hostContainerID = id }
}

func WithMaxDuration(seconds float64) WidgetOption {
	return func(c *WidgetConfig) {
		if seconds > 0 {
			c.maxDurationSeconds = seconds
		}
	}
}

func (c WidgetConfig) VideoReference() string      { return c.videoReference }
func (c WidgetConfig) CTAText() string             { return c.ctaText }
func (c WidgetConfig) CTALink() string             { return c.ctaLink }
func (c WidgetConfig) HostContainerID() string     { return c.hostContainerID }
func (c WidgetConfig) MaxDurationSeconds() float64 { return c.maxDurationSeconds }
