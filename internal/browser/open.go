// Package browser opens links with the system's default handler.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"vidembed/internal/domain"
	"vidembed/internal/infra"
)

// Start opens link with the default handler without waiting for it.
func Start(link string) error {
	cmd, ok := command(runtime.GOOS, link)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

func command(goos, link string) (*exec.Cmd, bool) {
	switch goos {
	case "windows":
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", link), true
	case "darwin":
		return exec.Command("open", link), true
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", link), true
	case "android":
		return exec.Command("termux-open", link), true
	default:
		return nil, false
	}
}

// Navigator opens CTA links in a new browser window. Failures are logged and
// otherwise ignored.
type Navigator struct {
	Logger *infra.Logger
	start  func(string) error
}

// NewNavigator returns a Navigator backed by the system handler.
func NewNavigator(logger *infra.Logger) *Navigator {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Navigator{Logger: logger, start: Start}
}

func (n *Navigator) Open(link string) {
	if err := n.start(link); err != nil {
		n.Logger.Warn().Err(err).Str("link", link).Msg("open link failed")
	}
}

var _ domain.Navigator = (*Navigator)(nil)
