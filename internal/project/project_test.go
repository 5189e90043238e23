package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/base-cli/base/internal/errors"
)

func TestNewDefaults(t *testing.T) {
	dir := t.TempDir()

	p, err := New("Müller & Co. Project", "", dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if p.MachineName != "muller-co-project" {
		t.Errorf("MachineName = %q, want %q", p.MachineName, "muller-co-project")
	}
	if p.RootDirectory != filepath.Join(dir, "muller-co-project") {
		t.Errorf("RootDirectory = %q", p.RootDirectory)
	}
	if p.APIURL != "api.muller-co-project.test" {
		t.Errorf("APIURL = %q", p.APIURL)
	}
	if p.BackofficeURL != "backoffice.muller-co-project.test" {
		t.Errorf("BackofficeURL = %q", p.BackofficeURL)
	}
	if p.FrontendURL != "muller-co-project.test" {
		t.Errorf("FrontendURL = %q", p.FrontendURL)
	}
	if p.FrontendPort != 3000 {
		t.Errorf("FrontendPort = %d, want 3000", p.FrontendPort)
	}
	if p.DatabaseName != "muller_co_project" {
		t.Errorf("DatabaseName = %q", p.DatabaseName)
	}
}

func TestNewExplicitMachineName(t *testing.T) {
	p, err := New("Anything", "custom-name", t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if p.MachineName != "custom-name" {
		t.Errorf("MachineName = %q, want custom-name", p.MachineName)
	}
}

func TestNewRejectsUnusableNames(t *testing.T) {
	for _, tt := range []struct{ display, machine string }{
		{"!!!", ""},
		{"ok", "Not Valid"},
	} {
		_, err := New(tt.display, tt.machine, t.TempDir())
		if errors.GetCode(err) != errors.EUsage {
			t.Errorf("New(%q, %q) code = %q, want %q", tt.display, tt.machine, errors.GetCode(err), errors.EUsage)
		}
	}
}

func TestCreateRefusesExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	p, err := New("demo", "", dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Create(); err != nil {
		t.Fatalf("first Create() error: %v", err)
	}
	if _, err := os.Stat(p.RootDirectory); err != nil {
		t.Fatalf("root not created: %v", err)
	}

	err = p.Create()
	if errors.GetCode(err) != errors.EFilesystem {
		t.Errorf("second Create() code = %q, want %q", errors.GetCode(err), errors.EFilesystem)
	}
}

func TestReplacementsMerge(t *testing.T) {
	p, _ := New("Demo", "", t.TempDir())
	base := NewReplacements(p)

	merged, err := base.Merge(Replacements{KeyClientID: "3", KeyClientSecret: "abc"})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if merged[KeyClientID] != "3" || merged[KeyClientSecret] != "abc" {
		t.Errorf("merged credentials missing: %v", merged)
	}
	if merged[KeyFrontendPort] != "3000" {
		t.Errorf("frontendPort = %q, want 3000", merged[KeyFrontendPort])
	}
	if _, ok := base[KeyClientID]; ok {
		t.Error("Merge must not modify the receiver")
	}
}

func TestReplacementsMergeConflict(t *testing.T) {
	base := Replacements{KeyAPIURL: "api.demo.test"}
	_, err := base.Merge(Replacements{KeyAPIURL: "other"})
	if errors.GetCode(err) != errors.EReplacementConflict {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EReplacementConflict)
	}
}

func TestToken(t *testing.T) {
	if got := Token("apiUrl"); got != "{[apiUrl]}" {
		t.Errorf("Token() = %q", got)
	}
}
