package procexec

import (
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/trikdhar/mymake/internal/variables"
)

// Orchestrator is the driver-facing half of the process tree: for
// every recipe line it re-execs the running binary as a recipe
// worker, tracks the worker's PID in its own registry, and waits for
// it, per §4.5/§5. One Orchestrator is shared across an entire build,
// and its wall-clock deadline (if any) is armed once for that whole
// build rather than reset per recipe line.
type Orchestrator struct {
	workers  *Registry
	debug    bool
	deadline time.Time // zero means no wall-clock timeout armed

	safetyOn    bool
	safetyAbort bool
}

// NewOrchestrator creates an Orchestrator. debug enables the indented
// trace lines described in §5; timeout <= 0 disables the build's
// overall wall-clock deadline, otherwise the deadline is computed once
// here, at build start, and every recipe line shares what remains of
// it. The safety checker is on by default; disable it with SetSafety.
func NewOrchestrator(debug bool, timeout time.Duration) *Orchestrator {
	o := &Orchestrator{workers: NewRegistry("workers", debug), debug: debug, safetyOn: true}
	if timeout > 0 {
		o.deadline = time.Now().Add(timeout)
	}
	return o
}

// SetSafety controls whether a recipe worker checks each stage's argv
// against the built-in dangerous-command rules (§4.3) before exec, and
// whether a critical match aborts the stage instead of only warning.
func (o *Orchestrator) SetSafety(enabled, abortOnCritical bool) {
	o.safetyOn = enabled
	o.safetyAbort = abortOnCritical
}

// ExecRecipe runs one recipe line as a child recipe-worker process and
// blocks until it exits, returning its exit status. table and ctx
// supply the variable bindings the worker needs to expand the line's
// tokens; they travel to the child through its environment since a
// re-exec'd process does not inherit Go call-stack state.
//
// When the build carries a deadline, this recipe line only gets what
// is left of it: a build whose cumulative recipe time runs past the
// configured timeout aborts on whichever recipe line is running when
// the deadline arrives, not just one that individually overruns it.
func (o *Orchestrator) ExecRecipe(line string, table map[string]string, ctx variables.Context) int {
	if o.deadline.IsZero() {
		return o.startAndWait(line, table, ctx)
	}

	remaining := time.Until(o.deadline)
	if remaining <= 0 {
		if o.debug {
			log.Printf("[mymake]\tbuild timeout already elapsed, tearing down")
		}
		teardown(o.workers, nil)
		return 1
	}

	return WithTimeout(remaining, o.workers, nil, o.debug, func() int {
		return o.startAndWait(line, table, ctx)
	})
}

func (o *Orchestrator) startAndWait(line string, table map[string]string, ctx variables.Context) int {
	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}

	p := payload{
		Line:        line,
		Target:      ctx.Target,
		Prereq:      ctx.Prerequisite,
		Vars:        table,
		Debug:       o.debug,
		SafetyOn:    o.safetyOn,
		SafetyAbort: o.safetyAbort,
	}

	cmd := exec.Command(self, WorkerMarker)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), p.toEnv()...)

	if err := cmd.Start(); err != nil {
		return 1
	}
	o.workers.Add(cmd.Process.Pid)
	err = cmd.Wait()
	o.workers.Remove(cmd.Process.Pid)

	if err != nil {
		return 1
	}
	return 0
}
