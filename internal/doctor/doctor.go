package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/base-cli/base/internal/config"
	"github.com/base-cli/base/internal/homestead"
)

// Status of a single check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusMiss Status = "MISS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Check is the outcome of one diagnostic.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// Tool is a host binary with a minimum version.
type Tool struct {
	Name       string
	Constraint string
}

// Tools returns the binaries provisioning shells out to.
func Tools() []Tool {
	return []Tool{
		{Name: "vagrant", Constraint: ">= 2.2.0"},
		{Name: "npm", Constraint: ">= 6.0.0"},
	}
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Doctor runs checks. The function fields are replaceable for tests.
type Doctor struct {
	LookPath func(file string) (string, error)
	// Version returns the output of "<path> --version".
	Version func(ctx context.Context, path string) (string, error)
}

// New returns a Doctor that inspects the real host.
func New() *Doctor {
	return &Doctor{
		LookPath: exec.LookPath,
		Version: func(ctx context.Context, path string) (string, error) {
			out, err := exec.CommandContext(ctx, path, "--version").Output()
			return string(out), err
		},
	}
}

// CheckTool verifies t is on PATH and satisfies its version constraint.
func (d *Doctor) CheckTool(ctx context.Context, t Tool) Check {
	c := Check{Name: t.Name}

	path, err := d.LookPath(t.Name)
	if err != nil {
		c.Status, c.Detail = StatusMiss, t.Name+" not found"
		return c
	}

	out, err := d.Version(ctx, path)
	if err != nil {
		c.Status, c.Detail = StatusWarn, fmt.Sprintf("%s found at %s, version unknown: %v", t.Name, path, err)
		return c
	}
	raw := ExtractVersion(out)
	v, err := semver.NewVersion(raw)
	if err != nil {
		c.Status, c.Detail = StatusWarn, fmt.Sprintf("%s found at %s, cannot parse version %q", t.Name, path, strings.TrimSpace(out))
		return c
	}

	constraint, err := semver.NewConstraint(t.Constraint)
	if err != nil {
		c.Status, c.Detail = StatusFail, fmt.Sprintf("invalid constraint %q: %v", t.Constraint, err)
		return c
	}
	if !constraint.Check(v) {
		c.Status, c.Detail = StatusWarn, fmt.Sprintf("%s %s found, %s required", t.Name, v, t.Constraint)
		return c
	}

	c.Status, c.Detail = StatusOK, fmt.Sprintf("%s %s found at %s", t.Name, v, path)
	return c
}

// ExtractVersion returns the first dotted version number in output, or "".
func ExtractVersion(output string) string {
	return versionPattern.FindString(output)
}

// CheckHomestead verifies the configured Homestead directory and manifest.
func CheckHomestead(s config.Store) []Check {
	dir := config.HomesteadDir(s)
	if dir == "" {
		return []Check{{Name: "homestead", Status: StatusMiss, Detail: "Homestead directory not configured (run setup)"}}
	}

	var checks []Check
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		checks = append(checks, Check{Name: "homestead", Status: StatusFail, Detail: dir + " is not a directory"})
	} else {
		checks = append(checks, Check{Name: "homestead", Status: StatusOK, Detail: dir + " exists"})
	}

	path := config.ManifestPath(s)
	if _, err := homestead.Load(path); err != nil {
		checks = append(checks, Check{Name: "manifest", Status: StatusFail, Detail: err.Error()})
	} else {
		checks = append(checks, Check{Name: "manifest", Status: StatusOK, Detail: path + " is valid"})
	}

	if ip := s.Get(config.KeyIPAddress); ip == "" {
		checks = append(checks, Check{Name: "ip_address", Status: StatusWarn, Detail: "Homestead IP not configured; hosts-file guidance unavailable"})
	} else {
		checks = append(checks, Check{Name: "ip_address", Status: StatusOK, Detail: ip})
	}
	return checks
}

// Run performs every check.
func (d *Doctor) Run(ctx context.Context, s config.Store) []Check {
	var checks []Check
	for _, t := range Tools() {
		checks = append(checks, d.CheckTool(ctx, t))
	}
	return append(checks, CheckHomestead(s)...)
}

// Healthy reports whether no check failed or is missing.
func Healthy(checks []Check) bool {
	for _, c := range checks {
		if c.Status == StatusFail || c.Status == StatusMiss {
			return false
		}
	}
	return true
}
