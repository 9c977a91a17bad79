// Package browser opens URLs in the user's default browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// VerifyURL is the inbox site used to check generated addresses.
const VerifyURL = "https://temp-mail.asia/"

// Opener launches a URL in a new browser context.
type Opener func(url string) error

// Open starts the platform browser launcher for url without waiting for
// the browser to exit.
func Open(url string) error {
	cmd, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go cmd.Wait() //nolint:errcheck // launcher exit status is irrelevant

	return nil
}

func command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return nil, fmt.Errorf("no browser launcher: install xdg-utils")
		}
		return exec.Command("xdg-open", url), nil
	default:
		return nil, fmt.Errorf("browser not supported on %s", goos)
	}
}
