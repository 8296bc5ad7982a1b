package tui

import (
	"errors"
	"io"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type urlOpenDoneMsg struct {
	url string
	err error
}

// urlOpener opens a URL outside the terminal and reports back.
type urlOpener func(url string) tea.Cmd

// platformOpener uses override (a command name, e.g. "firefox") when set,
// else the platform default.
func platformOpener(override string) urlOpener {
	override = strings.TrimSpace(override)
	return func(u string) tea.Cmd {
		return func() tea.Msg {
			if strings.TrimSpace(u) == "" {
				return urlOpenDoneMsg{err: errors.New("empty url")}
			}
			var cmd *exec.Cmd
			switch {
			case override != "":
				cmd = exec.Command(override, u)
			case runtime.GOOS == "darwin":
				cmd = exec.Command("open", u)
			case runtime.GOOS == "windows":
				cmd = exec.Command("cmd", "/c", "start", "", u)
			default:
				cmd = exec.Command("xdg-open", u)
			}
			// Keep opener chatter off the alt screen.
			cmd.Stdout = io.Discard
			cmd.Stderr = io.Discard
			if err := cmd.Start(); err != nil {
				return urlOpenDoneMsg{url: u, err: err}
			}
			return urlOpenDoneMsg{url: u, err: cmd.Wait()}
		}
	}
}
