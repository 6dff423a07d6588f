package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// update rewrites golden files instead of comparing against them:
//
//	go test ./internal/output -update
var update = flag.Bool("update", false, "rewrite golden files in testdata")

// Golden compares output against testdata/<name>.golden and reports a
// unified diff on mismatch. The -update flag or GOLDEN_UPDATE=1 rewrites
// the file instead.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name+".golden")

	if *update || os.Getenv("GOLDEN_UPDATE") != "" {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(goldenPath, got, 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nGot:\n%s", goldenPath, err, got)
	}

	if string(got) == string(want) {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(want)),
		B:        difflib.SplitLines(string(got)),
		FromFile: goldenPath,
		ToFile:   "got",
		Context:  2,
	})
	if err != nil || diff == "" {
		t.Errorf("output mismatch for %s\nWant:\n%q\nGot:\n%q", name, want, got)
		return
	}
	t.Errorf("output mismatch for %s\n%s", name, diff)
}

// GoldenString is like Golden but takes a string.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}
