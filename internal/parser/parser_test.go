package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "mymake3.mk")

	content := `CC=gcc
CFLAGS=-Wall

all: build test
	echo "done"

build: main.o
	$(CC) -o app main.o

.c.o:
	$(CC) $(CFLAGS) -c $<
`

	if err := os.WriteFile(testFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	db, err := Parse(testFile)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got, want := db.Variables["CC"], "gcc"; got != want {
		t.Errorf("CC = %q, want %q", got, want)
	}
	if got, want := db.Variables["CFLAGS"], "-Wall"; got != want {
		t.Errorf("CFLAGS = %q, want %q", got, want)
	}

	ruleMap := make(map[string]Rule)
	for _, r := range db.Rules {
		ruleMap[r.Target] = r
	}

	tests := []struct {
		name     string
		prereqs  []string
		commands []string
	}{
		{"all", []string{"build", "test"}, []string{`echo "done"`}},
		{"build", []string{"main.o"}, []string{"$(CC) -o app main.o"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, found := ruleMap[tt.name]
			if !found {
				t.Fatalf("rule %s not found", tt.name)
			}
			if len(r.Prerequisites) != len(tt.prereqs) {
				t.Fatalf("prerequisites = %v, want %v", r.Prerequisites, tt.prereqs)
			}
			for i, p := range tt.prereqs {
				if r.Prerequisites[i] != p {
					t.Errorf("prerequisite[%d] = %q, want %q", i, r.Prerequisites[i], p)
				}
			}
			if len(r.Commands) != len(tt.commands) {
				t.Fatalf("commands = %v, want %v", r.Commands, tt.commands)
			}
			for i, c := range tt.commands {
				if r.Commands[i] != c {
					t.Errorf("command[%d] = %q, want %q", i, r.Commands[i], c)
				}
			}
		})
	}

	if got := db.DefaultTarget(); got != "all" {
		t.Errorf("DefaultTarget() = %q, want %q", got, "all")
	}
}

func TestParsePatternRule(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "mymake3.mk")

	content := `.c.o:
	gcc -c $< -o $@
`
	if err := os.WriteFile(testFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	db, err := Parse(testFile)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(db.PatternRules) != 1 {
		t.Fatalf("len(PatternRules) = %d, want 1", len(db.PatternRules))
	}

	pr := db.PatternRules[0]
	if pr.Target != ".c.o" {
		t.Errorf("Target = %q, want %q", pr.Target, ".c.o")
	}
	if len(pr.Extensions) != 2 || pr.Extensions[0] != "c" || pr.Extensions[1] != "o" {
		t.Errorf("Extensions = %v, want [c o]", pr.Extensions)
	}

	if match, found := db.MatchPattern("c"); !found || match.Target != ".c.o" {
		t.Errorf("MatchPattern(\"c\") = %+v, %v; want .c.o match", match, found)
	}
	if _, found := db.MatchPattern("h"); found {
		t.Errorf("MatchPattern(\"h\") unexpectedly matched")
	}
}

func TestLastExtension(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"main.c", "c"},
		{".c.o", "o"},
		{"%.o", "o"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := LastExtension(tt.target); got != tt.want {
			t.Errorf("LastExtension(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.mk"))
	if err == nil {
		t.Fatal("expected an error for a missing specification file")
	}
	if _, ok := err.(*ParseInputError); !ok {
		t.Errorf("error = %T, want *ParseInputError", err)
	}
}

func TestLookup(t *testing.T) {
	db := &Database{Rules: []Rule{{Target: "build"}, {Target: "test"}}}

	if _, found := db.Lookup("build"); !found {
		t.Error("Lookup(\"build\") not found")
	}
	if _, found := db.Lookup("missing"); found {
		t.Error("Lookup(\"missing\") unexpectedly found")
	}
}
