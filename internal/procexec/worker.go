package procexec

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/trikdhar/mymake/internal/recipe"
	"github.com/trikdhar/mymake/internal/safety"
	"github.com/trikdhar/mymake/internal/variables"
)

// RunRecipeLine executes every command group of a single recipe line
// in declaration order, per §4.5. It is the logic that runs inside a
// recipe worker: stages is the worker's own registry, used so a
// signal handler installed around this call can kill every live
// stage on interrupt. checker, when non-nil, is consulted against
// each stage's resolved argv before exec (§4.3); abortOnCritical
// decides whether a critical match stops the stage instead of only
// logging. It returns the process's exit status: 0 on success, 1 if
// any group's final stage (or any stage) fails.
func RunRecipeLine(line string, table map[string]string, ctx variables.Context, stages *Registry, checker *safety.Checker, abortOnCritical bool) int {
	groups := recipe.Split(line, table, ctx)
	for _, group := range groups {
		if status := runGroup(group, stages, checker, abortOnCritical); status != 0 {
			return status
		}
	}
	return 0
}

// printCommand prints a stage's fully-resolved argv before it runs,
// independent of debug tracing — the original always did this.
func printCommand(argv []string) {
	fmt.Println(strings.Join(argv, " "))
}

// checkStageSafety logs a warning for every built-in rule a stage's
// argv matches, and reports whether execution should abort (only
// possible when abortOnCritical is set and the match is critical).
func checkStageSafety(argv []string, checker *safety.Checker, abortOnCritical bool) bool {
	if checker == nil || len(argv) == 0 {
		return false
	}
	line := strings.Join(argv, " ")
	result := checker.CheckLine(line)
	if result == nil {
		return false
	}
	for _, m := range result.Matches {
		log.Printf("mymake: warning: %q matches safety rule %s (%s): %s", line, m.Rule.ID, m.Severity, m.Rule.Description)
	}
	return abortOnCritical && result.DangerLevel == safety.SeverityCritical
}

// runGroup runs one pipeline's stages left to right, wiring each
// stage's standard output to the next stage's standard input via a
// pipe, per §4.5. Stages run sequentially — each is waited on before
// the next is launched — reproducing the source's serialized
// pipeline semantics rather than classic concurrent-pipeline
// spawning. A stage with an explicit output-redirection file writes
// there directly instead of into the pipeline; the final stage, when
// it has no output-redirection file, inherits the recipe worker's own
// standard output so its result is visible like any other recipe.
func runGroup(group recipe.Group, stages *Registry, checker *safety.Checker, abortOnCritical bool) int {
	var input *os.File

	for i, stage := range group.Stages {
		printCommand(stage.Argv)
		if checkStageSafety(stage.Argv, checker, abortOnCritical) {
			log.Printf("mymake: aborting: %q matched a critical safety rule", strings.Join(stage.Argv, " "))
			return 1
		}

		if stage.IsChdir {
			if stage.Chdir == "" {
				log.Printf("mymake: 'cd' requires exactly one argument")
				return 1
			}
			if err := os.Chdir(stage.Chdir); err != nil {
				log.Printf("mymake: cd %s: %v", stage.Chdir, err)
				return 1
			}
			continue
		}

		isLast := i == len(group.Stages)-1

		cmd := exec.Command(stage.Argv[0], stage.Argv[1:]...)
		cmd.Stderr = os.Stderr

		var openedInput *os.File
		switch {
		case input != nil:
			cmd.Stdin = input
		case stage.InputFile != "":
			f, err := os.Open(stage.InputFile)
			if err != nil {
				log.Printf("mymake: open input %s: %v", stage.InputFile, err)
				return 1
			}
			openedInput = f
			cmd.Stdin = f
		default:
			cmd.Stdin = os.Stdin
		}

		var pipeWrite, pipeRead *os.File
		var outFile *os.File
		switch {
		case stage.OutputFile != "":
			f, err := os.OpenFile(stage.OutputFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
			if err != nil {
				log.Printf("mymake: open output %s: %v", stage.OutputFile, err)
				closeAll(openedInput)
				return 1
			}
			outFile = f
			cmd.Stdout = f
		case !isLast:
			r, w, err := os.Pipe()
			if err != nil {
				log.Printf("mymake: pipe: %v", err)
				closeAll(openedInput)
				return 1
			}
			pipeRead, pipeWrite = r, w
			cmd.Stdout = w
		default:
			cmd.Stdout = os.Stdout
		}

		if err := cmd.Start(); err != nil {
			log.Printf("mymake: exec %s: %v", stage.Argv[0], err)
			closeAll(openedInput, outFile, pipeRead, pipeWrite)
			return 1
		}
		stages.Add(cmd.Process.Pid)

		waitErr := cmd.Wait()
		stages.Remove(cmd.Process.Pid)

		closeAll(openedInput, outFile, pipeWrite, input)
		input = nil

		if waitErr != nil {
			stages.KillAll()
			closeAll(pipeRead)
			return 1
		}

		input = pipeRead
	}

	closeAll(input)
	return 0
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		if c != nil {
			c.Close()
		}
	}
}
