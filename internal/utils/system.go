package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// SystemInfo holds information about the current system
type SystemInfo struct {
	OS            string
	Architecture  string
	ChromePresent bool
	ChromePath    string
}

// DetectSystem returns information about the current operating system,
// architecture and the Chrome binary used to render labels.
func DetectSystem(chromePath string) SystemInfo {
	info := SystemInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
	if chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			info.ChromePresent, info.ChromePath = true, chromePath
			return info
		}
	}
	info.ChromePresent, info.ChromePath = CheckChrome()
	return info
}

// --------------------------------------
// CHROME CHECK
// --------------------------------------

// CheckChrome checks if google-chrome or chromium is installed
func CheckChrome() (bool, string) {
	binaries := []string{
		"google-chrome",
		"google-chrome-stable",
		"chromium",
		"chromium-browser",
	}

	for _, bin := range binaries {
		path, err := exec.LookPath(bin)
		if err == nil {
			return true, path
		}
	}

	for _, path := range commonChromePaths(runtime.GOOS) {
		if _, err := os.Stat(path); err == nil {
			return true, path
		}
	}

	return false, ""
}

func commonChromePaths(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}

	case "linux":
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}

	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files\Chromium\Application\chromium.exe`,
			`C:\Program Files (x86)\Chromium\Application\chromium.exe`,
		}

	default:
		return nil
	}
}

// --------------------------------------
// VALIDATION
// --------------------------------------

// ErrChromeMissing is returned by ValidateSystemRequirements when no
// Chrome/Chromium binary can be found.
var ErrChromeMissing = errors.New("chrome/chromium is required but not installed")

// ValidateSystemRequirements writes a short report to w and fails when labels
// cannot be rendered on this machine.
func ValidateSystemRequirements(w io.Writer, chromePath string) error {
	sysInfo := DetectSystem(chromePath)

	fmt.Fprintf(w, "System Information:\n")
	fmt.Fprintf(w, "  OS: %s\n", sysInfo.OS)
	fmt.Fprintf(w, "  Architecture: %s\n\n", sysInfo.Architecture)

	if sysInfo.ChromePresent {
		fmt.Fprintf(w, "✓ Chrome/Chromium found at: %s\n", sysInfo.ChromePath)
		fmt.Fprintf(w, "  Version: %s\n", chromeVersion(sysInfo.ChromePath))
		return nil
	}

	fmt.Fprintln(w, "✗ Chrome / Chromium not found!")
	fmt.Fprintln(w, "  It is required to render labels with headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprint(w, chromeInstallInstructions(sysInfo.OS))

	return ErrChromeMissing
}

func chromeVersion(path string) string {
	output, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// --------------------------------------
// INSTALLATION INSTRUCTIONS
// --------------------------------------

func chromeInstallInstructions(osType string) string {
	var b strings.Builder
	b.WriteString("Installation Instructions:\n\n")

	switch osType {
	case "linux":
		b.WriteString("Ubuntu / Debian:\n  sudo apt update\n  sudo apt install chromium-browser\n\n")
		b.WriteString("Fedora:\n  sudo dnf install chromium\n\n")
		b.WriteString("Arch:\n  sudo pacman -S chromium\n\n")
		b.WriteString("Google Chrome:\n  https://www.google.com/chrome/\n")

	case "darwin":
		b.WriteString("Using Homebrew:\n  brew install --cask google-chrome\n\n")
		b.WriteString("Or Chromium:\n  brew install chromium\n")

	case "windows":
		b.WriteString("Download Google Chrome:\n  https://www.google.com/chrome/\n\n")
		b.WriteString("Or install Chromium manually.\n")

	default:
		b.WriteString("Please install Chrome or Chromium for your OS.\n")
	}

	b.WriteString("\nAfter installation, restart the print host.\n")
	return b.String()
}
