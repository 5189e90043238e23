package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/base-cli/base/internal/project"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestSubstitutePartialMapLeavesUnknownTokens(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"config.txt": "url={[apiUrl]} secret={[clientSecret]}"})

	_, err := Substitute(SubtreePatterns(dir), project.Replacements{"apiUrl": "api.demo.test"})
	if err != nil {
		t.Fatalf("Substitute() error: %v", err)
	}

	got := readFile(t, filepath.Join(dir, "config.txt"))
	if want := "url=api.demo.test secret={[clientSecret]}"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestSubstituteIncludesDotfilesAndNestedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".env":                   "APP_NAME={[name]}",
		"src/.hidden/conf.json":  `{"name": "{[name]}"}`,
		"src/deep/nested/app.js": "export const name = '{[name]}'",
	})

	changed, err := Substitute(SubtreePatterns(dir), project.Replacements{"name": "Demo"})
	if err != nil {
		t.Fatalf("Substitute() error: %v", err)
	}
	if len(changed) != 3 {
		t.Errorf("changed %d files %v, want 3", len(changed), changed)
	}

	if got := readFile(t, filepath.Join(dir, ".env")); got != "APP_NAME=Demo" {
		t.Errorf(".env = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "src/.hidden/conf.json")); !strings.Contains(got, `"Demo"`) {
		t.Errorf("conf.json = %q", got)
	}
}

func TestSubstituteAllOccurrences(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "{[x]}-{[x]}-{[x]}"})

	if _, err := Substitute([]string{dir}, project.Replacements{"x": "1"}); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dir, "a.txt")); got != "1-1-1" {
		t.Errorf("content = %q, want 1-1-1", got)
	}
}

func TestSubstituteTokenComplete(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt":      "{[machineName]} {[apiUrl]}",
		"b/.env":     "PORT={[frontendPort]}",
		"b/c/d.yaml": "db: {[databaseName]}",
	})
	repl := project.Replacements{
		"machineName":  "demo",
		"apiUrl":       "api.demo.test",
		"frontendPort": "3000",
		"databaseName": "demo",
	}

	if _, err := Substitute([]string{dir}, repl); err != nil {
		t.Fatal(err)
	}

	pending, err := Remaining([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("Remaining() = %v, want none", pending)
	}
}

func TestSubstituteOrderIndependent(t *testing.T) {
	content := "{[a]}|{[b]}|{[c]}|{[a]}{[c]}"
	repl := project.Replacements{"a": "alpha", "b": "bravo", "c": "charlie"}

	orders := [][]string{{"a", "b", "c"}, {"c", "b", "a"}, {"b", "a", "c"}}
	var outputs []string
	for _, order := range orders {
		dir := t.TempDir()
		writeTree(t, dir, map[string]string{"f.txt": content})
		for _, k := range order {
			if _, err := Substitute([]string{dir}, project.Replacements{k: repl[k]}); err != nil {
				t.Fatal(err)
			}
		}
		outputs = append(outputs, readFile(t, filepath.Join(dir, "f.txt")))
	}

	all := t.TempDir()
	writeTree(t, all, map[string]string{"f.txt": content})
	if _, err := Substitute([]string{all}, repl); err != nil {
		t.Fatal(err)
	}
	want := readFile(t, filepath.Join(all, "f.txt"))

	for i, got := range outputs {
		if got != want {
			t.Errorf("order %v produced %q, want %q", orders[i], got, want)
		}
	}
}

func TestSubstituteIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"f.txt": "host={[apiUrl]}"})
	repl := project.Replacements{"apiUrl": "api.demo.test"}

	if _, err := Substitute([]string{dir}, repl); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, filepath.Join(dir, "f.txt"))

	changed, err := Substitute([]string{dir}, repl)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 0 {
		t.Errorf("second pass rewrote %v, want nothing", changed)
	}
	if got := readFile(t, filepath.Join(dir, "f.txt")); got != first {
		t.Errorf("second pass changed content to %q", got)
	}
}

func TestSubstituteSkipsDependencyDirsAndBinaries(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"node_modules/pkg/index.js": "{[name]}",
		".git/config":               "{[name]}",
		"vendor/lib/x.php":          "{[name]}",
		"image.png":                 "\x89PNG\x00\x00{[name]}",
		"app.js":                    "{[name]}",
	})

	changed, err := Substitute([]string{dir}, project.Replacements{"name": "Demo"})
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 1 || filepath.Base(changed[0]) != "app.js" {
		t.Errorf("changed = %v, want only app.js", changed)
	}
	if got := readFile(t, filepath.Join(dir, "node_modules/pkg/index.js")); got != "{[name]}" {
		t.Errorf("node_modules file rewritten: %q", got)
	}
}

func TestSubstitutePreservesMode(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "run.sh")
	os.WriteFile(script, []byte("#!/bin/sh\necho {[name]}\n"), 0755)

	if _, err := Substitute([]string{dir}, project.Replacements{"name": "demo"}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(script)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestSubstituteBadPattern(t *testing.T) {
	if _, err := Substitute([]string{"[unclosed"}, project.Replacements{}); err == nil {
		t.Fatal("expected error for malformed glob pattern")
	}
}

func TestSubstituteGlobPattern(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.env": "{[k]}",
		"b.txt": "{[k]}",
	})

	if _, err := Substitute([]string{filepath.Join(dir, "*.env")}, project.Replacements{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dir, "a.env")); got != "v" {
		t.Errorf("a.env = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "b.txt")); got != "{[k]}" {
		t.Errorf("b.txt should not match *.env, got %q", got)
	}
}

func TestSubtreePatternsLiteralParentDirectory(t *testing.T) {
	for _, parent := range []string{"work[1]", "star*dir", "what?", `back\slash`} {
		t.Run(parent, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), parent, "demo", "frontend")
			writeTree(t, root, map[string]string{
				".env":       "API={[apiUrl]}\n",
				"src/app.js": "fetch('{[apiUrl]}')",
			})
			patterns := SubtreePatterns(root)

			pending, err := Remaining(patterns)
			if err != nil {
				t.Fatalf("Remaining() error: %v", err)
			}
			if len(pending) != 1 || pending[0] != "apiUrl" {
				t.Errorf("Remaining() before = %v, want [apiUrl]", pending)
			}

			changed, err := Substitute(patterns, project.Replacements{"apiUrl": "api.demo.test"})
			if err != nil {
				t.Fatalf("Substitute() error: %v", err)
			}
			if len(changed) != 2 {
				t.Errorf("changed = %v, want 2 files", changed)
			}
			if got := readFile(t, filepath.Join(root, ".env")); got != "API=api.demo.test\n" {
				t.Errorf(".env = %q", got)
			}

			pending, err = Remaining(patterns)
			if err != nil {
				t.Fatalf("Remaining() error: %v", err)
			}
			if len(pending) != 0 {
				t.Errorf("Remaining() after = %v, want none", pending)
			}
		})
	}
}

func TestEscapePattern(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a[b]*?")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	matches, err := filepath.Glob(EscapePattern(dir))
	if err != nil {
		t.Fatalf("Glob() error: %v", err)
	}
	if len(matches) != 1 || matches[0] != dir {
		t.Errorf("Glob(EscapePattern(%q)) = %v", dir, matches)
	}
}
