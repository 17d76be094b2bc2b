package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trikdhar/mymake/internal/safety"
)

// ItemDelegate renders the browse list using bubbles' default
// delegate styling, with icons for danger level, wave order, and
// recency layered on top.
type ItemDelegate struct {
	list.DefaultDelegate
}

// NewItemDelegate creates a delegate styled with our color palette.
func NewItemDelegate() ItemDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(PrimaryColor).
		BorderForeground(PrimaryColor)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(SecondaryColor).
		BorderForeground(PrimaryColor)
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(TextColor)
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(MutedColor)
	d.Styles.DimmedTitle = d.Styles.DimmedTitle.Foreground(MutedColor)
	d.Styles.DimmedDesc = d.Styles.DimmedDesc.Foreground(MutedColor)

	return ItemDelegate{DefaultDelegate: d}
}

func (d ItemDelegate) Height() int  { return 2 }
func (d ItemDelegate) Spacing() int { return 1 }

func (d ItemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return d.DefaultDelegate.Update(msg, m)
}

func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	if _, ok := listItem.(SeparatorTarget); ok {
		fmt.Fprint(w, SeparatorStyle.Render(strings.Repeat("─", 40)))
		return
	}
	if header, ok := listItem.(HeaderTarget); ok {
		fmt.Fprint(w, SectionHeaderStyle.Render(header.Label))
		return
	}

	target, ok := listItem.(Target)
	if !ok {
		return
	}

	var icon string
	switch {
	case target.IsDangerous && target.DangerLevel == safety.SeverityCritical:
		icon = "● "
	case target.IsDangerous && target.DangerLevel == safety.SeverityWarning:
		icon = "○ "
	case target.IsRecent:
		icon = "◆ "
	}

	title := icon + target.Name
	if target.IsPattern {
		title += " (pattern)"
	}

	var desc string
	if target.Order > 0 {
		desc = fmt.Sprintf("wave %d", target.Order)
	}
	if target.IsCritical {
		desc += " · critical path"
	}
	if target.PerfStats != nil {
		desc += " · last " + formatDuration(target.PerfStats.LastDuration)
		if target.PerfStats.IsRegressed {
			desc += " ↑"
		}
	}
	desc = strings.TrimPrefix(desc, " · ")

	isSelected := index == m.Index()
	titleStyle := d.Styles.NormalTitle
	descStyle := d.Styles.NormalDesc
	if isSelected {
		titleStyle = d.Styles.SelectedTitle
		descStyle = d.Styles.SelectedDesc
	}

	fmt.Fprint(w, titleStyle.Render(title))
	if desc != "" {
		fmt.Fprint(w, "\n"+descStyle.Render(desc))
	} else {
		fmt.Fprint(w, "\n")
	}
}
