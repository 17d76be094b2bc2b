package tui

import (
	"fmt"
	"time"
)

func (m Model) View() string {
	if m.Err != nil {
		return ErrorStyle.Render(fmt.Sprintf("mymake: %v", m.Err))
	}

	switch m.State {
	case StateRunning:
		return "\n  " + m.Spinner.View() + " building " + m.RunningTarget + "...\n\n" +
			renderStatusBar(m.Width, m.SpecPath, "ctrl+c to cancel")

	case StateOutput:
		status := SuccessStyle.Render("build succeeded")
		if m.RunErr != nil {
			status = ErrorStyle.Render(m.RunErr.Error())
		}
		return "\n  " + status + "\n\n" +
			renderStatusBar(m.Width, m.SpecPath, "any key to go back")

	default:
		return m.List.View() + "\n" + renderStatusBar(m.Width, m.SpecPath, "enter: run · q: quit")
	}
}

// formatDuration renders a duration the way the browse list's
// duration badge does: milliseconds under a second, otherwise
// one-decimal seconds or minutes.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
