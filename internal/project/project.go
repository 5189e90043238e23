package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/base-cli/base/internal/errors"
	"github.com/base-cli/base/internal/naming"
)

// DefaultFrontendPort is the port the frontend dev server listens on unless overridden.
const DefaultFrontendPort = 3000

// Admin identifies the administrative account created at the end of provisioning.
type Admin struct {
	Name  string
	Email string
}

// Project is the unit of work for one "base create" run.
type Project struct {
	DisplayName   string
	MachineName   string // derived once from DisplayName, never recomputed
	RootDirectory string // absolute; must not exist before Create
	DatabaseName  string
	APIURL        string
	BackofficeURL string
	FrontendURL   string
	FrontendPort  int
	Admin         Admin
}

// New builds a Project under parentDir with URL and database defaults derived
// from machineName. An empty machineName is replaced by the normalized display name.
func New(displayName, machineName, parentDir string) (Project, error) {
	if machineName == "" {
		machineName = naming.Normalize(displayName)
	}
	if !naming.Valid(machineName) {
		return Project{}, errors.New(errors.EUsage, "new-project", machineName,
			"machine name must be non-empty and match [a-z0-9-]+")
	}

	root, err := filepath.Abs(filepath.Join(parentDir, machineName))
	if err != nil {
		return Project{}, errors.Wrap(errors.EFilesystem, "resolve", parentDir, err)
	}

	return Project{
		DisplayName:   displayName,
		MachineName:   machineName,
		RootDirectory: root,
		DatabaseName:  DefaultDatabaseName(machineName),
		APIURL:        DefaultAPIURL(machineName),
		BackofficeURL: DefaultBackofficeURL(machineName),
		FrontendURL:   DefaultFrontendURL(machineName),
		FrontendPort:  DefaultFrontendPort,
	}, nil
}

// DefaultAPIURL returns api.<machine>.test.
func DefaultAPIURL(machineName string) string {
	return fmt.Sprintf("api.%s.test", machineName)
}

// DefaultBackofficeURL returns backoffice.<machine>.test.
func DefaultBackofficeURL(machineName string) string {
	return fmt.Sprintf("backoffice.%s.test", machineName)
}

// DefaultFrontendURL returns <machine>.test.
func DefaultFrontendURL(machineName string) string {
	return machineName + ".test"
}

// DefaultDatabaseName returns the machine name with hyphens replaced by underscores.
func DefaultDatabaseName(machineName string) string {
	return strings.ReplaceAll(machineName, "-", "_")
}

// Create makes the project root directory. It fails if the directory already exists.
func (p Project) Create() error {
	if err := os.MkdirAll(filepath.Dir(p.RootDirectory), 0755); err != nil {
		return errors.Wrap(errors.EFilesystem, "mkdir", filepath.Dir(p.RootDirectory), err)
	}
	if err := os.Mkdir(p.RootDirectory, 0755); err != nil {
		return errors.Wrap(errors.EFilesystem, "mkdir", p.RootDirectory, err)
	}
	return nil
}

// Subdir returns the path of a template subtree (e.g. "backend") inside the project.
func (p Project) Subdir(key string) string {
	return filepath.Join(p.RootDirectory, key)
}

// Hosts returns every hostname the project serves, in a stable order.
func (p Project) Hosts() []string {
	return []string{p.APIURL, p.BackofficeURL, p.FrontendURL}
}
