package scaffold

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/base-cli/base/internal/errors"
	"github.com/base-cli/base/internal/logging"
	"github.com/base-cli/base/internal/project"
)

// skippedDirs hold dependency-manager output and VCS metadata, never template files.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// binarySniffLen is how much of a file is checked for NUL bytes.
const binarySniffLen = 8000

// globMeta escapes the characters filepath.Match treats specially.
var globMeta = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)

// SubtreePatterns returns the patterns covering a template subtree: the
// directory itself and its .env, which is listed explicitly so dotfile
// handling never depends on how a pattern is expanded. dir is taken
// literally, so brackets or wildcards in parent directory names still match.
func SubtreePatterns(dir string) []string {
	lit := EscapePattern(dir)
	return []string{lit, filepath.Join(lit, ".env")}
}

// EscapePattern quotes path so it matches itself as a filepath.Match pattern.
func EscapePattern(path string) string {
	return globMeta.Replace(path)
}

// Substitute replaces every {[key]} token for the keys in repl in all files
// matched by patterns. A pattern is a filepath.Match glob; matched
// directories are walked recursively, hidden files included. Tokens whose
// key is not in repl are left verbatim. It returns the files it rewrote.
//
// Values must not themselves contain token-shaped text; under that
// condition key order is irrelevant.
func Substitute(patterns []string, repl project.Replacements) ([]string, error) {
	logger := logging.GetLogger("substitute")

	files, err := expand(patterns)
	if err != nil {
		return nil, err
	}

	replacer := newReplacer(repl)
	var changed []string
	for _, path := range files {
		ok, err := rewrite(path, replacer)
		if err != nil {
			return changed, err
		}
		if ok {
			changed = append(changed, path)
		}
	}

	logger.Debug().Int("files", len(files)).Int("changed", len(changed)).Int("keys", len(repl)).Msg("Substitution pass")
	return changed, nil
}

func newReplacer(repl project.Replacements) *strings.Replacer {
	keys := repl.Keys()
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, project.Token(k), repl[k])
	}
	return strings.NewReplacer(pairs...)
}

// expand resolves patterns to a sorted, de-duplicated list of regular files.
func expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrap(errors.EFilesystem, "glob", pattern, err)
		}
		for _, m := range matches {
			if err := collect(m, seen); err != nil {
				return nil, err
			}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func collect(root string, seen map[string]bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrap(errors.EFilesystem, "walk", path, err)
		}
		if d.IsDir() {
			if path != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			seen[path] = true
		}
		return nil
	})
}

// rewrite applies the replacer to one file, writing it back only when the
// content changed. Binary files are left alone.
func rewrite(path string, replacer *strings.Replacer) (bool, error) {
	data, err := readText(path)
	if err != nil {
		return false, err
	}
	if !bytes.Contains(data, []byte("{[")) {
		return false, nil
	}

	out := replacer.Replace(string(data))
	if out == string(data) {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, errors.Wrap(errors.EFilesystem, "stat", path, err)
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, errors.Wrap(errors.EFilesystem, "write", path, err)
	}
	return true, nil
}

// readText returns a file's content, or nil for binary files.
func readText(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.EFilesystem, "read", path, err)
	}
	if isBinary(data) {
		return nil, nil
	}
	return data, nil
}

func isBinary(data []byte) bool {
	n := len(data)
	if n > binarySniffLen {
		n = binarySniffLen
	}
	return bytes.IndexByte(data[:n], 0) >= 0
}
