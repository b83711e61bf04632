package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vidembed/internal/browser"
	"vidembed/internal/domain"
	"vidembed/internal/infra"
	"vidembed/internal/widget"
	"vidembed/internal/widget/htmldom"
)

type widgetFlags struct {
	ctaText   string
	ctaLink   string
	container string
	duration  float64
	click     bool
	out       string
}

func newWidgetCmd() *cobra.Command {
	var f widgetFlags
	cmd := &cobra.Command{
		Use:   "widget <video-ref>",
		Short: "Render the CTA video widget on a host page",
		Long: `Builds the widget for a video reference, mounts it on a minimal host page and prints the HTML.
--duration simulates the loaded-metadata event; --click opens the CTA link in the browser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWidget(cmd, args[0], f, browser.NewNavigator(infra.Component(logger, "browser")))
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.ctaText, "cta-text", "", "CTA button label")
	fl.StringVar(&f.ctaLink, "cta-link", "", "CTA target URL")
	fl.StringVar(&f.container, "container", "", "Host container id")
	fl.Float64Var(&f.duration, "duration", -1, "Dispatch loaded-metadata with this duration in seconds")
	fl.BoolVar(&f.click, "click", false, "Dispatch a click on the CTA")
	fl.StringVarP(&f.out, "out", "o", "", "Write the page to a file instead of stdout")
	return cmd
}

func runWidget(cmd *cobra.Command, ref string, f widgetFlags, nav domain.Navigator) error {
	opts := cfg.WidgetOptions()
	if f.ctaText != "" {
		opts = append(opts, domain.WithCTAText(f.ctaText))
	}
	if f.ctaLink != "" {
		opts = append(opts, domain.WithCTALink(f.ctaLink))
	}
	if f.container != "" {
		opts = append(opts, domain.WithHostContainer(f.container))
	}
	wc := domain.NewWidgetConfig(ref, opts...)

	doc := htmldom.HostPage("Video widget", wc.HostContainerID())
	errOut := cmd.ErrOrStderr()
	inst, err := widget.New(wc, doc, nav,
		widget.WithLogger(infra.Component(logger, "widget")),
		widget.WithWarningHandler(func(w widget.Warning) {
			fmt.Fprintln(errOut, "warning:", w.String())
		}),
	)
	if err != nil {
		return err
	}
	if f.duration >= 0 {
		doc.LoadedMetadata(inst.Media(), f.duration)
	}
	if f.click {
		doc.Click(inst.CTA())
	}

	var out io.Writer = stdout(cmd)
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.out, err)
		}
		defer file.Close()
		out = file
	}
	logger.Debug().Str("state", inst.State().String()).Str("platform", string(inst.Platform())).Msg("widget rendered")
	return doc.Render(out)
}
