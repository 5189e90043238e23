package provision

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/alessio/shellescape"
	"github.com/base-cli/base/internal/homestead"
	"github.com/base-cli/base/internal/logging"
	"github.com/base-cli/base/internal/project"
	"github.com/base-cli/base/internal/remote"
	"github.com/base-cli/base/internal/scaffold"
	"github.com/base-cli/base/internal/templates"
)

// Stage names, in execution order.
const (
	StageFrontendDependencies = "frontend-dependencies"
	StageRegister             = "register"
	StageBackendDependencies  = "backend-dependencies"
	StageAppKey               = "app-key"
	StageMigrate              = "migrate"
	StageIssueCredentials     = "issue-credentials"
	StageInjectCredentials    = "inject-credentials"
	StageCreateAdmin          = "create-admin"
)

// Commands run by the stages.
const (
	cmdNPMInstall      = "npm install"
	cmdVagrantReload   = "vagrant reload --provision"
	cmdComposerInstall = "composer install"
	cmdKeyGenerate     = "php artisan key:generate"
	cmdMigrate         = "php artisan migrate --force"
	cmdPassportInstall = "php artisan passport:install"
	cmdAdminCreate     = "php artisan admin:create"
)

// State is the value threaded through the stages. Each stage returns an
// updated copy.
type State struct {
	Project      project.Project
	Replacements project.Replacements

	// Set by the register stage.
	Manifest *homestead.AddResult
	// Set by the issue-credentials stage.
	Credentials remote.Credentials
}

// Stage is one named step.
type Stage struct {
	Name string
	Run  func(ctx context.Context, st State) (State, error)
}

// Provisioner holds what the stages need besides the State.
type Provisioner struct {
	Remote       *remote.Orchestrator
	ManifestPath string
	GuestRoot    string // e.g. /home/vagrant/code
	// OnStage, if set, is called before each stage runs.
	OnStage func(index, total int, name string)
}

// GuestPath returns the project's directory inside the VM.
func GuestPath(guestRoot, machineName string) string {
	return path.Join(guestRoot, machineName)
}

// ManifestEntries returns the Homestead.yaml entries for p: the backend
// folder mount, a site for the API and backoffice hosts, and the database.
func ManifestEntries(p project.Project, guestRoot string) (homestead.Mapping, []homestead.Mapping, []string) {
	guest := GuestPath(guestRoot, p.MachineName)
	public := path.Join(guest, "public")

	folder := homestead.Mapping{Map: p.Subdir(templates.KeyBackend), To: guest}
	sites := []homestead.Mapping{
		{Map: p.APIURL, To: public},
		{Map: p.BackofficeURL, To: public},
	}
	return folder, sites, []string{p.DatabaseName}
}

// Stages returns the provisioning steps in execution order.
func (p *Provisioner) Stages() []Stage {
	return []Stage{
		{Name: StageFrontendDependencies, Run: p.frontendDependencies},
		{Name: StageRegister, Run: p.register},
		{Name: StageBackendDependencies, Run: p.remoteStep(cmdComposerInstall)},
		{Name: StageAppKey, Run: p.remoteStep(cmdKeyGenerate)},
		{Name: StageMigrate, Run: p.remoteStep(cmdMigrate)},
		{Name: StageIssueCredentials, Run: p.issueCredentials},
		{Name: StageInjectCredentials, Run: p.injectCredentials},
		{Name: StageCreateAdmin, Run: p.createAdmin},
	}
}

// Run executes every stage in order and stops at the first error, which is
// returned wrapped with the stage name. The returned State reflects the last
// successful stage.
func (p *Provisioner) Run(ctx context.Context, st State) (State, error) {
	return p.RunStages(ctx, p.Stages(), st)
}

// RunStages executes stages in order, stopping at the first error.
func (p *Provisioner) RunStages(ctx context.Context, stages []Stage, st State) (State, error) {
	logger := logging.GetLogger("provision")

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return st, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		if p.OnStage != nil {
			p.OnStage(i+1, len(stages), stage.Name)
		}

		start := time.Now()
		next, err := stage.Run(ctx, st)
		if err != nil {
			logger.Error().Err(err).Str("stage", stage.Name).Msg("Provisioning stage failed")
			return st, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		st = next
		logger.Info().Str("stage", stage.Name).Dur("duration", time.Since(start)).Msg("Provisioning stage completed")
	}
	return st, nil
}

func (p *Provisioner) frontendDependencies(ctx context.Context, st State) (State, error) {
	_, err := p.Remote.Local(ctx, st.Project.Subdir(templates.KeyFrontend), cmdNPMInstall)
	return st, err
}

func (p *Provisioner) register(ctx context.Context, st State) (State, error) {
	folder, sites, databases := ManifestEntries(st.Project, p.GuestRoot)
	res, err := homestead.AddProject(p.ManifestPath, folder, sites, databases)
	if err != nil {
		return st, err
	}
	st.Manifest = res

	if _, err := p.Remote.Local(ctx, p.Remote.HomesteadDir, cmdVagrantReload); err != nil {
		return st, err
	}
	return st, nil
}

func (p *Provisioner) remoteStep(command string) func(context.Context, State) (State, error) {
	return func(ctx context.Context, st State) (State, error) {
		_, err := p.Remote.Remote(ctx, command)
		return st, err
	}
}

func (p *Provisioner) issueCredentials(ctx context.Context, st State) (State, error) {
	res, err := p.Remote.Remote(ctx, cmdPassportInstall)
	if err != nil {
		return st, err
	}
	creds, err := remote.ParseCredentials(res.Stdout)
	if err != nil {
		return st, err
	}
	st.Credentials = creds
	return st, nil
}

func (p *Provisioner) injectCredentials(_ context.Context, st State) (State, error) {
	merged, err := st.Replacements.Merge(project.Replacements{
		project.KeyClientID:     st.Credentials.ClientID,
		project.KeyClientSecret: st.Credentials.ClientSecret,
	})
	if err != nil {
		return st, err
	}

	patterns := scaffold.SubtreePatterns(st.Project.Subdir(templates.KeyFrontend))
	if _, err := scaffold.Substitute(patterns, merged); err != nil {
		return st, err
	}
	st.Replacements = merged
	return st, nil
}

func (p *Provisioner) createAdmin(ctx context.Context, st State) (State, error) {
	_, err := p.Remote.RemoteInteractive(ctx, AdminCommand(st.Project.Admin))
	return st, err
}

// AdminCommand returns the artisan command creating the admin account.
func AdminCommand(a project.Admin) string {
	return cmdAdminCreate +
		" --name=" + shellescape.Quote(a.Name) +
		" --email=" + shellescape.Quote(a.Email)
}
