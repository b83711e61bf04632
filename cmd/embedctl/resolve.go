package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"vidembed/internal/backend"
	"vidembed/internal/domain"
	"vidembed/internal/embed"
	"vidembed/internal/infra"
	"vidembed/internal/media"
)

var flagJSON bool

func newResolver() (*embed.Resolver, error) {
	client := backend.NewClient(backend.Options{
		BaseURL:        cfg.ServerURL,
		Logger:         infra.Component(logger, "backend"),
		RequestTimeout: requestTimeout(),
	})
	return embed.NewResolver(embed.Options{
		Uploader:           client,
		Generator:          client,
		MaxDurationSeconds: cfg.MaxDurationSeconds,
		Logger:             infra.Component(logger, "resolver"),
	})
}

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Generate embed markup for a YouTube or Dailymotion link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := newResolver()
			if err != nil {
				return err
			}
			result, err := resolver.ResolveRemote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
	cmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Print the full result as JSON")
	return cmd
}

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local video and generate embed markup for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lm, err := media.Open(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}
			if err := media.LoadMetadata(cmd.Context(), lm, newProber()); err != nil {
				logger.Debug().Err(err).Str("file", args[0]).Msg("duration probe failed")
			}
			resolver, err := newResolver()
			if err != nil {
				return err
			}
			result, err := resolver.ResolveLocal(cmd.Context(), lm)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
	cmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Print the full result as JSON")
	return cmd
}

// newProber parses ISO-BMFF in process and falls back to ffprobe when it is installed.
func newProber() media.Prober {
	chain := media.ChainProber{media.MP4Prober{}}
	if ff := media.NewFFProbe(cfg.FFProbePath); ff.Available() {
		chain = append(chain, ff)
	} else {
		logger.Debug().Str("path", ff.Path).Msg("ffprobe not available")
	}
	return chain
}

func printResult(cmd *cobra.Command, result *domain.EmbedResult) error {
	out := stdout(cmd)
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err := fmt.Fprintln(out, result.EmbedMarkup)
	return err
}
