package scaffold

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/base-cli/base/internal/logging"
	"github.com/base-cli/base/internal/project"
	"github.com/base-cli/base/internal/templates"
)

// Fetcher downloads one archive. *templates.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Templates []string // installed template keys, in order
	Files     []string // files rewritten by substitution, relative to OutputDir
	Pending   []string // token keys still present after substitution
}

var tokenPattern = regexp.MustCompile(`\{\[([A-Za-z0-9_.-]+)\]\}`)

// Generate creates the project root and populates it from specs:
//  1. fetch and install every template archive
//  2. copy each template's .env.example to .env
//  3. substitute repl across each template subtree
//
// The project root must not already exist.
func Generate(ctx context.Context, f Fetcher, p project.Project, specs []templates.Spec, repl project.Replacements) (*Result, error) {
	logger := logging.GetLogger("scaffold")

	if err := p.Create(); err != nil {
		return nil, err
	}

	result := &Result{OutputDir: p.RootDirectory}

	for _, spec := range specs {
		archive := filepath.Join(p.RootDirectory, spec.Key+".zip")
		if err := f.Fetch(ctx, spec.SourceURL, archive); err != nil {
			return result, err
		}
		if err := templates.Install(archive, p.RootDirectory, spec.Key); err != nil {
			return result, err
		}
		result.Templates = append(result.Templates, spec.Key)
		logger.Info().Str("template", spec.Key).Str("url", spec.SourceURL).Msg("Template installed")
	}

	for _, spec := range specs {
		if err := templates.MaterializeDotEnv(p.Subdir(spec.Key)); err != nil {
			return result, err
		}
	}

	var patterns []string
	for _, spec := range specs {
		patterns = append(patterns, SubtreePatterns(p.Subdir(spec.Key))...)
	}

	changed, err := Substitute(patterns, repl)
	if err != nil {
		return result, err
	}
	for _, path := range changed {
		rel, err := filepath.Rel(p.RootDirectory, path)
		if err != nil {
			rel = path
		}
		result.Files = append(result.Files, rel)
	}

	pending, err := Remaining(patterns)
	if err != nil {
		return result, err
	}
	result.Pending = pending

	return result, nil
}

// Remaining returns the sorted keys of tokens still present in files matched by patterns.
func Remaining(patterns []string) ([]string, error) {
	files, err := expand(patterns)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool)
	for _, path := range files {
		data, err := readText(path)
		if err != nil {
			return nil, err
		}
		for _, m := range tokenPattern.FindAllSubmatch(data, -1) {
			keys[string(m[1])] = true
		}
	}

	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
