package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverSpecFiles(t *testing.T) {
	root := t.TempDir()

	mustWrite := func(rel string) {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", full, err)
		}
		if err := os.WriteFile(full, []byte("all:\n\techo hi\n"), 0644); err != nil {
			t.Fatalf("WriteFile(%s): %v", full, err)
		}
	}

	mustWrite("mymake3.mk")
	mustWrite("services/api/mymake3.mk")
	mustWrite("services/api/node_modules/mymake3.mk")
	mustWrite("services/worker/README.md")

	opts := DefaultDiscoveryOptions("")
	results, err := DiscoverSpecFiles(root, opts)
	if err != nil {
		t.Fatalf("DiscoverSpecFiles: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 spec files (node_modules excluded), got %d: %+v", len(results), results)
	}

	for _, r := range results {
		if filepath.Base(r.Path) != "mymake3.mk" {
			t.Errorf("unexpected result file: %s", r.Path)
		}
	}
}

func TestDiscoverSpecFilesRespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c", "d")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(deep, "mymake3.mk"), []byte("all:\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	opts := DefaultDiscoveryOptions("mymake3.mk")
	opts.MaxDepth = 1

	results, err := DiscoverSpecFiles(root, opts)
	if err != nil {
		t.Fatalf("DiscoverSpecFiles: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results past max depth, got %d", len(results))
	}
}

func TestFindSpecFileInParents(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested", "deeper")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "mymake3.mk"), []byte("all:\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	results, err := FindSpecFileInParents(sub, "mymake3.mk", 5)
	if err != nil {
		t.Fatalf("FindSpecFileInParents: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(results), results)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{500, "500 B"},
		{2048, "2.0 KB"},
		{1048576, "1.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
