package variables

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpand(t *testing.T) {
	table := map[string]string{"CC": "echo"}
	ctx := Context{Target: "main", Prerequisite: "main.c"}

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"plain target", "$@", "main"},
		{"plain prereq", "$<", "main.c"},
		{"paren var", "$(CC)", "echo"},
		{"bare var", "$CC)", "echo"},
		{"unknown var", "$(MISSING)", ""},
		{"no dollar", "foo", "foo"},
		{"prefix and suffix kept", "pre$(@)post", "premainpost"},
		{"bare form with trailing text swallows to end of token", "pre$@post", "pre"},
		{"only first dollar expands", "$(CC)$(CC)", "echo$(CC)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.token, table, ctx)
			if got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestExpandNoRecursiveReexpansion(t *testing.T) {
	table := map[string]string{"X": "$Y)"}
	got := Expand("$(X)", table, Context{})
	if got != "$Y)" {
		t.Errorf("Expand should not re-expand the substituted value, got %q", got)
	}
}

func TestResolveCommandAbsolute(t *testing.T) {
	if got := ResolveCommand("/bin/echo"); got != "/bin/echo" {
		t.Errorf("ResolveCommand(absolute) = %q, want unchanged", got)
	}
}

func TestResolveCommandViaMyPath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "mytool")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MYPATH", dir)

	got := ResolveCommand("mytool")
	if got != exe {
		t.Errorf("ResolveCommand(mytool) = %q, want %q", got, exe)
	}
}

func TestResolveCommandFallsBackWhenNotFound(t *testing.T) {
	t.Setenv("MYPATH", t.TempDir())
	got := ResolveCommand("doesnotexist")
	if got != "doesnotexist" {
		t.Errorf("ResolveCommand(missing) = %q, want bare name", got)
	}
}
