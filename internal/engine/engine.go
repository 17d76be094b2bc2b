// Package engine walks a parsed target graph depth-first and drives
// the process orchestrator to build every reachable target once, with
// no staleness check, per §4.4.
package engine

import (
	"fmt"
	"log"
	"strings"

	"github.com/trikdhar/mymake/internal/graph"
	"github.com/trikdhar/mymake/internal/history"
	"github.com/trikdhar/mymake/internal/parser"
	"github.com/trikdhar/mymake/internal/variables"
)

// Runner executes one recipe line to completion and reports its exit
// status, per §4.5. *procexec.Orchestrator satisfies this; tests
// substitute a lightweight fake so the DFS walk can be exercised
// without spawning real recipe-worker processes.
type Runner interface {
	ExecRecipe(line string, table map[string]string, ctx variables.Context) int
}

// Options controls the driver's behavior, bound from the CLI's -k/-d
// flags (§6).
type Options struct {
	ContinueOnError bool
	Debug           bool
}

// Engine holds one build's mutable state: the rule database, the
// process orchestrator shared across every recipe line, and the
// visited set for the current walk.
type Engine struct {
	db      *parser.Database
	orch    Runner
	opts    Options
	visited map[string]bool

	graph    *graph.Graph
	hist     *history.History
	specPath string
}

// New creates an Engine over a parsed database. orch is typically
// shared across a whole invocation even if Build is called once.
func New(db *parser.Database, orch Runner, opts Options) *Engine {
	return &Engine{db: db, orch: orch, opts: opts}
}

// SetDiagnostics attaches the dependency graph and execution history
// used to annotate -d trace output with a target's wave number,
// critical-path membership, and last recorded duration, per §4.1/§4.2.
// Diagnostics are optional: an Engine with none set still builds and
// traces normally, just without the annotations.
func (e *Engine) SetDiagnostics(g *graph.Graph, hist *history.History, specPath string) {
	e.graph = g
	e.hist = hist
	e.specPath = specPath
}

// DefaultTarget returns the target to build when invoked with none:
// the first rule's target in declaration order.
func (e *Engine) DefaultTarget() string {
	return e.db.DefaultTarget()
}

// Build walks the graph rooted at target, per §4.4. It returns an
// error only when a recipe failed and continue-on-error is off; a
// missing target or pattern match is diagnosed but non-fatal, per §7.
func (e *Engine) Build(target string) error {
	e.visited = make(map[string]bool)
	return e.build(target, target, 0)
}

func (e *Engine) build(target, context string, depth int) error {
	if !isPatternTarget(target) {
		if e.visited[target] {
			return nil
		}
		e.visited[target] = true
	}

	traceCtx := target
	if isPatternTarget(target) {
		traceCtx = context
	}
	if e.opts.Debug {
		e.trace(depth, traceCtx, "building "+target+e.annotate(target))
	}

	if rule, ok := e.db.Lookup(target); ok {
		for _, prereq := range rule.Prerequisites {
			if err := e.build(prereq, target, depth+1); err != nil {
				if !e.opts.ContinueOnError {
					return err
				}
			}
		}

		for _, command := range rule.Commands {
			ctx := variables.Context{Target: target, Prerequisite: context}
			status := e.orch.ExecRecipe(command, e.db.Variables, ctx)
			if status != 0 {
				e.trace(depth, traceCtx, fmt.Sprintf("recipe failed: %s", command))
				if e.opts.ContinueOnError {
					log.Printf("mymake: [%s] %s", target, "*** recipe failed, continuing")
					continue
				}
				return fmt.Errorf("recipe for %q failed", target)
			}
		}
		return nil
	}

	if strings.Contains(target, ".c") || strings.Contains(target, ".h") {
		return nil
	}

	ext := parser.LastExtension(target)
	if pr, ok := e.db.MatchPattern(ext); ok {
		newContext := basename(target, ext) + "." + pr.Extensions[0]
		return e.build(pr.Target, newContext, depth+1)
	}

	fmt.Println("**Target not found")
	return nil
}

// basename strips the trailing ".ext" fragment (or the bare ext at the
// end of the string) from target, used to build the context passed
// into a matched pattern rule.
func basename(target, ext string) string {
	suffix := "." + ext
	if strings.HasSuffix(target, suffix) {
		return strings.TrimSuffix(target, suffix)
	}
	return strings.TrimSuffix(target, ext)
}

// isPatternTarget reports whether name is a pattern-rule target
// rather than a concrete one, per §3's visited-set exclusion.
func isPatternTarget(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "%")
}

// trace emits an indented per-target line when debug tracing is on,
// per §6's "Trace output" format: one tab per nesting level, then
// "[<context>] <message>".
func (e *Engine) trace(depth int, context, message string) {
	if !e.opts.Debug {
		return
	}
	fmt.Printf("%s[%s] %s\n", strings.Repeat("\t", depth), context, message)
}

// annotate renders target's graph wave/critical-path and last-run
// duration as a trailing "(...)" suffix for a trace line, per §4.1's
// "wave number... annotate -d trace output" and §4.2's "Surfaced only
// in -d trace output and browse". Returns "" when no diagnostics were
// attached via SetDiagnostics, or when target isn't a graph node /
// has no recorded history.
func (e *Engine) annotate(target string) string {
	var parts []string

	if e.graph != nil {
		if node, ok := e.graph.Nodes[target]; ok && node.Order > 0 {
			parts = append(parts, fmt.Sprintf("wave %d", node.Order))
			if node.IsCritical {
				parts = append(parts, "critical path")
			}
		}
	}

	if e.hist != nil {
		if stats := e.hist.GetPerformanceStats(e.specPath, target); stats != nil {
			parts = append(parts, fmt.Sprintf("last %s", stats.LastDuration))
			if stats.IsRegressed {
				parts = append(parts, "regressed")
			}
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
