// Package recipe decomposes a single recipe line into the sequence of
// command groups, pipeline stages, argv vectors, and redirections that
// the process orchestrator executes.
package recipe

import (
	"strings"

	"github.com/trikdhar/mymake/internal/variables"
)

// Stage is one pipeline stage: either a directory-change directive
// (IsChdir true) or a program invocation with optional input/output
// redirection files.
type Stage struct {
	Argv       []string
	InputFile  string
	OutputFile string
	IsChdir    bool
	Chdir      string // valid only when IsChdir; "" if the directive had the wrong arity
}

// Group is a pipeline: an ordered sequence of stages whose standard
// output/input are chained left to right.
type Group struct {
	Stages []Stage
}

// Split decomposes line into command groups per §4.3: split on ";",
// then each group on "|", then each stage into redirections + argv.
// Variable references in each token are expanded against table using
// ctx; the resolved program name of each non-cd stage is located via
// variables.ResolveCommand, and redirection file names via
// variables.ResolveFile.
func Split(line string, table map[string]string, ctx variables.Context) []Group {
	var groups []Group
	for _, part := range strings.Split(line, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		groups = append(groups, Group{Stages: splitPipeline(part, table, ctx)})
	}
	return groups
}

func splitPipeline(group string, table map[string]string, ctx variables.Context) []Stage {
	var stages []Stage
	for _, raw := range strings.Split(group, "|") {
		stages = append(stages, splitStage(raw, table, ctx))
	}
	return stages
}

func splitStage(raw string, table map[string]string, ctx variables.Context) Stage {
	text := raw

	var inputFile, outputFile string

	if pos := indexRedirect(text, '<'); pos >= 0 {
		inputFile = strings.TrimSpace(text[pos+1:])
		text = text[:pos]
	}

	if pos := strings.IndexByte(text, '>'); pos >= 0 {
		outputFile = strings.TrimSpace(text[pos+1:])
		text = text[:pos]
	}

	fields := strings.Fields(text)
	argv := make([]string, 0, len(fields))
	for _, f := range fields {
		argv = append(argv, variables.Expand(f, table, ctx))
	}

	if isChdir(argv) {
		dir := ""
		if len(argv) == 2 {
			dir = argv[1]
		}
		return Stage{IsChdir: true, Chdir: dir, Argv: argv}
	}

	if len(argv) > 0 {
		argv[0] = variables.ResolveCommand(argv[0])
	}
	if inputFile != "" {
		inputFile = variables.ResolveFile(inputFile)
	}

	return Stage{Argv: argv, InputFile: inputFile, OutputFile: outputFile}
}

// isChdir reports whether a stage is a directory-change directive:
// its first token's first two characters are "cd", per §4.3.
func isChdir(argv []string) bool {
	if len(argv) == 0 {
		return false
	}
	first := argv[0]
	return len(first) >= 2 && first[0] == 'c' && first[1] == 'd'
}

// indexRedirect finds the first occurrence of ch in text that is not
// part of the two-character token "$<", per §4.3's carve-out for the
// $< variable reference.
func indexRedirect(text string, ch byte) int {
	for i := 0; i < len(text); i++ {
		if text[i] != ch {
			continue
		}
		if ch == '<' && i > 0 && text[i-1] == '$' {
			continue
		}
		return i
	}
	return -1
}
