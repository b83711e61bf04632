package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vidembed/internal/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

// userMessage turns an error kind into the text shown to the person at the terminal.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return "Please enter a valid video URL"
	case errors.Is(err, domain.ErrInvalidMediaType):
		return "Please select a valid video file"
	case errors.Is(err, domain.ErrUnsupportedPlatform):
		return "Unsupported video platform"
	case errors.Is(err, domain.ErrDurationExceeded):
		return fmt.Sprintf("Video must be %v seconds or less.", maxDurationForMessage())
	case errors.Is(err, domain.ErrDurationUnknown):
		return "Could not read the video duration"
	case errors.Is(err, domain.ErrUploadFailed):
		return "Upload failed"
	case errors.Is(err, domain.ErrGenerationFailed):
		return "Unable to generate embed code"
	default:
		return "Error: " + err.Error()
	}
}

func maxDurationForMessage() float64 {
	if cfg != nil {
		return cfg.MaxDurationSeconds
	}
	return domain.DefaultMaxDurationSeconds
}
