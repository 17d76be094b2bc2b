// Package procexec forks a recipe worker per recipe line and, inside
// that worker, a stage worker per pipeline stage — the two-level
// process tree described in spec §4.5. Go offers no safe bare fork()
// of a multi-threaded runtime, so the recipe-worker level is realized
// by re-executing the mymake binary itself with a hidden marker
// argument (the same "reexec self" technique used by Docker's and
// runc's privileged helper processes): the driver's Orchestrator
// starts the running executable (os.Executable, or os.Args[0] if that
// fails) as a child with that marker, and main() routes straight into
// RunWorkerMain, which runs RunRecipeLine, when it detects the marker
// instead of parsing the user-facing CLI.
package procexec

import (
	"encoding/base64"
	"encoding/json"
	"os"

	"github.com/trikdhar/mymake/internal/safety"
	"github.com/trikdhar/mymake/internal/variables"
)

// WorkerMarker is the hidden os.Args[1] value that tells a re-exec'd
// process it is a recipe worker, not a fresh invocation of the CLI.
const WorkerMarker = "__mymake_recipe_worker__"

const (
	envLine        = "MYMAKE_RECIPE_LINE"
	envTarget      = "MYMAKE_TARGET"
	envPrereq      = "MYMAKE_PREREQ"
	envVars        = "MYMAKE_VARS_B64"
	envDebug       = "MYMAKE_DEBUG"
	envSafety      = "MYMAKE_SAFETY_ENABLED"
	envSafetyAbort = "MYMAKE_SAFETY_ABORT"
)

// payload is what the driver hands a recipe worker through its
// environment: the recipe line plus everything needed to expand its
// variable references. The build's overall wall-clock deadline is
// enforced entirely on the driver side (internal/procexec.Orchestrator)
// around the worker's Wait, so the worker itself carries no timeout.
type payload struct {
	Line        string
	Target      string
	Prereq      string
	Vars        map[string]string
	Debug       bool
	SafetyOn    bool
	SafetyAbort bool
}

func (p payload) toEnv() []string {
	vars, _ := json.Marshal(p.Vars)
	debug := "0"
	if p.Debug {
		debug = "1"
	}
	safetyOn := "0"
	if p.SafetyOn {
		safetyOn = "1"
	}
	safetyAbort := "0"
	if p.SafetyAbort {
		safetyAbort = "1"
	}
	return []string{
		envLine + "=" + p.Line,
		envTarget + "=" + p.Target,
		envPrereq + "=" + p.Prereq,
		envVars + "=" + base64.StdEncoding.EncodeToString(vars),
		envDebug + "=" + debug,
		envSafety + "=" + safetyOn,
		envSafetyAbort + "=" + safetyAbort,
	}
}

func payloadFromEnv() payload {
	var vars map[string]string
	if raw, err := base64.StdEncoding.DecodeString(os.Getenv(envVars)); err == nil {
		_ = json.Unmarshal(raw, &vars)
	}
	return payload{
		Line:        os.Getenv(envLine),
		Target:      os.Getenv(envTarget),
		Prereq:      os.Getenv(envPrereq),
		Vars:        vars,
		Debug:       os.Getenv(envDebug) == "1",
		SafetyOn:    os.Getenv(envSafety) == "1",
		SafetyAbort: os.Getenv(envSafetyAbort) == "1",
	}
}

// IsWorkerInvocation reports whether the current process was started
// as a recipe worker (args is os.Args).
func IsWorkerInvocation(args []string) bool {
	return len(args) > 1 && args[1] == WorkerMarker
}

// RunWorkerMain is the entire body of a recipe-worker process: decode
// the payload handed down by the driver, install signal handlers that
// tear down this worker's own stage subtree, run the recipe line, and
// return the process exit status.
func RunWorkerMain() int {
	p := payloadFromEnv()
	stages := NewRegistry("stages", p.Debug)

	stop := InstallSignalTeardown(nil, stages, p.Debug)
	defer stop()

	safetyCfg := safety.DefaultConfig()
	safetyCfg.Enabled = p.SafetyOn
	checker, _ := safety.NewChecker(safetyCfg)

	ctx := variables.Context{Target: p.Target, Prerequisite: p.Prereq}
	return RunRecipeLine(p.Line, p.Vars, ctx, stages, checker, p.SafetyAbort)
}
