// Package tui implements the "mymake browse" subcommand: a bubbletea
// list of a spec file's explicit and pattern rules, annotated with the
// dependency graph's wave number and the last run's duration, where
// selecting an entry runs that target through the same engine the CLI
// build path uses.
package tui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trikdhar/mymake/internal/engine"
	"github.com/trikdhar/mymake/internal/graph"
	"github.com/trikdhar/mymake/internal/history"
	"github.com/trikdhar/mymake/internal/parser"
	"github.com/trikdhar/mymake/internal/procexec"
	"github.com/trikdhar/mymake/internal/safety"
)

// AppState is the top-level screen the model is showing.
type AppState int

const (
	StateList AppState = iota
	StateRunning
	StateOutput
)

// Target is one rule (explicit or pattern) shown in the browse list.
type Target struct {
	Name         string
	IsPattern    bool
	Dependencies []string

	Order       int  // graph.Node.Order: topological wave number, 0 if not in the graph
	IsCritical  bool // on the dependency graph's critical path
	IsDangerous bool
	DangerLevel safety.Severity
	IsRecent    bool

	PerfStats *history.PerformanceStats // nil if no recorded run
}

func (t Target) FilterValue() string { return t.Name }

// SeparatorTarget renders a divider between the recent and full lists.
type SeparatorTarget struct{}

func (SeparatorTarget) FilterValue() string { return "" }

// HeaderTarget renders a section label such as "RECENT" or "TARGETS".
type HeaderTarget struct{ Label string }

func (HeaderTarget) FilterValue() string { return "" }

// Model is the bubbletea model for mymake browse.
type Model struct {
	List     list.Model
	Spinner  spinner.Model
	State    AppState
	Width    int
	Height   int

	SpecPath      string
	DB            *parser.Database
	Engine        *engine.Engine
	Orch          *procexec.Orchestrator
	SafetyChecker *safety.Checker
	Graph         *graph.Graph
	History       *history.History

	AllTargets []Target

	RunningTarget string
	RunStart      time.Time
	RunErr        error
	RunOutput     string

	Watch bool
	Err   error
}

// NewModel builds the browse list from a parsed spec database: every
// explicit and pattern rule, each annotated with its dependency-graph
// wave number and its last recorded run, most-recently-run first.
func NewModel(specPath string, db *parser.Database, eng *engine.Engine, orch *procexec.Orchestrator, safetyChecker *safety.Checker, watch bool) Model {
	absPath, err := filepath.Abs(specPath)
	if err != nil {
		absPath = specPath
	}

	g := graph.BuildGraph(graph.TargetsFromDatabase(db))

	hist, err := history.Load()
	if err != nil {
		hist = nil
	}

	targets := buildTargets(db, g, hist, absPath, safetyChecker)
	recent := recentTargets(targets, hist, absPath)
	items := buildItems(targets, recent)

	delegate := NewItemDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = "mymake targets"
	l.SetShowStatusBar(false)
	l.SetShowHelp(true)
	l.Styles.Title = TitleStyle

	for i, item := range items {
		if _, ok := item.(Target); ok {
			l.Select(i)
			break
		}
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	return Model{
		List:          l,
		Spinner:       spin,
		State:         StateList,
		SpecPath:      absPath,
		DB:            db,
		Engine:        eng,
		Orch:          orch,
		SafetyChecker: safetyChecker,
		Graph:         g,
		History:       hist,
		AllTargets:    targets,
		Watch:         watch,
	}
}

func buildTargets(db *parser.Database, g *graph.Graph, hist *history.History, specPath string, checker *safety.Checker) []Target {
	targets := make([]Target, 0, len(db.Rules)+len(db.PatternRules))

	for _, rule := range db.Rules {
		t := Target{Name: rule.Target, Dependencies: rule.Prerequisites}
		if node, ok := g.Nodes[rule.Target]; ok {
			t.Order = node.Order
			t.IsCritical = node.IsCritical
		}
		if checker != nil {
			if result := checker.CheckTarget(rule); result != nil {
				t.IsDangerous = result.IsDangerous
				t.DangerLevel = result.DangerLevel
			}
		}
		if hist != nil {
			t.PerfStats = hist.GetPerformanceStats(specPath, rule.Target)
		}
		targets = append(targets, t)
	}

	for _, pr := range db.PatternRules {
		targets = append(targets, Target{
			Name:         pr.Target,
			IsPattern:    true,
			Dependencies: pr.Prerequisites,
		})
	}

	return targets
}

func recentTargets(targets []Target, hist *history.History, specPath string) []Target {
	if hist == nil {
		return nil
	}
	byName := make(map[string]Target, len(targets))
	for _, t := range targets {
		byName[t.Name] = t
	}

	var recent []Target
	for _, entry := range hist.GetRecent(specPath) {
		if t, ok := byName[entry.Name]; ok {
			t.IsRecent = true
			recent = append(recent, t)
		}
	}
	return recent
}

func buildItems(all, recent []Target) []list.Item {
	items := make([]list.Item, 0, len(all)+len(recent)+3)
	if len(recent) > 0 {
		items = append(items, HeaderTarget{Label: "RECENT"})
		for _, t := range recent {
			items = append(items, t)
		}
		items = append(items, SeparatorTarget{})
	}
	items = append(items, HeaderTarget{Label: "TARGETS"})
	for _, t := range all {
		items = append(items, t)
	}
	return items
}

// Init starts the spec-file watch when browse was invoked with
// --watch; otherwise there is nothing to do on startup.
func (m Model) Init() tea.Cmd {
	return WatchSpec(m.SpecPath, m.Orch, m.SafetyChecker, m.Watch)
}
