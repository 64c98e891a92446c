package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// Launcher opens the course catalog in a local browser
type Launcher struct {
	preferred string
	browsers  []Browser
}

var _ ports.BrowserLauncher = (*Launcher)(nil)

// Browser represents a browser configuration
type Browser struct {
	Name    string
	Command string
	Args    func(url string) []string
}

// NewLauncher creates a launcher. preferred is a browser name or command
// from the configuration; "" and "default" use platform detection order.
func NewLauncher(preferred string) *Launcher {
	return &Launcher{
		preferred: strings.TrimSpace(preferred),
		browsers:  detectBrowsers(),
	}
}

// Launch opens url unless noOpen is set. It does not wait for the browser to exit.
func (l *Launcher) Launch(url string, noOpen bool) error {
	if noOpen {
		return nil
	}

	browser, err := l.selectBrowser()
	if err != nil {
		return fmt.Errorf("browser selection: %w", err)
	}

	cmd := exec.Command(browser.Command, browser.Args(url)...) // #nosec G204 - command resolved by selectBrowser
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", browser.Name, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// Detect returns the name of the browser Launch would use
func (l *Launcher) Detect() (string, error) {
	browser, err := l.selectBrowser()
	if err != nil {
		return "", err
	}
	return browser.Name, nil
}

// selectBrowser honors the configured browser first, then the first
// detected browser whose executable is on PATH.
func (l *Launcher) selectBrowser() (*Browser, error) {
	if l.preferred != "" && !strings.EqualFold(l.preferred, "default") {
		for _, candidate := range l.browsers {
			if strings.EqualFold(candidate.Name, l.preferred) {
				if _, err := exec.LookPath(candidate.Command); err == nil {
					return &candidate, nil
				}
			}
		}

		if path, err := exec.LookPath(l.preferred); err == nil {
			return &Browser{
				Name:    l.preferred,
				Command: path,
				Args:    func(url string) []string { return []string{url} },
			}, nil
		}

		return nil, fmt.Errorf("configured browser %q not found", l.preferred)
	}

	if len(l.browsers) == 0 {
		return nil, errors.New("no browsers available")
	}

	for _, candidate := range l.browsers {
		if _, err := exec.LookPath(candidate.Command); err == nil {
			return &candidate, nil
		}
	}

	return nil, errors.New("no supported browsers found on this system")
}

func urlOnly(url string) []string {
	return []string{url}
}

// detectBrowsers lists the platform's browsers in preference order
func detectBrowsers() []Browser {
	switch runtime.GOOS {
	case "darwin":
		openApp := func(app string) func(string) []string {
			return func(url string) []string { return []string{"-a", app, url} }
		}
		return []Browser{
			{Name: "Default", Command: "open", Args: urlOnly},
			{Name: "Chrome", Command: "open", Args: openApp("Google Chrome")},
			{Name: "Safari", Command: "open", Args: openApp("Safari")},
			{Name: "Firefox", Command: "open", Args: openApp("Firefox")},
		}
	case "linux":
		return []Browser{
			{Name: "xdg-open", Command: "xdg-open", Args: urlOnly},
			{Name: "Chrome", Command: "google-chrome", Args: urlOnly},
			{Name: "Chromium", Command: "chromium", Args: urlOnly},
			{Name: "Firefox", Command: "firefox", Args: urlOnly},
		}
	case "windows":
		start := func(exe string) func(string) []string {
			return func(url string) []string { return []string{"/c", "start", exe, url} }
		}
		return []Browser{
			{Name: "Default", Command: "cmd", Args: func(url string) []string { return []string{"/c", "start", "", url} }},
			{Name: "Chrome", Command: "cmd", Args: start("chrome")},
			{Name: "Edge", Command: "cmd", Args: start("msedge")},
		}
	default:
		return []Browser{}
	}
}
