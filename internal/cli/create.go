package cli

import (
	"fmt"
	"math/rand"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/base-cli/base/internal/branding"
	"github.com/base-cli/base/internal/config"
	"github.com/base-cli/base/internal/errors"
	"github.com/base-cli/base/internal/homestead"
	"github.com/base-cli/base/internal/naming"
	"github.com/base-cli/base/internal/project"
	"github.com/base-cli/base/internal/provision"
	"github.com/base-cli/base/internal/remote"
	"github.com/base-cli/base/internal/scaffold"
	"github.com/base-cli/base/internal/templates"
	"github.com/base-cli/base/internal/ui"
	"github.com/spf13/cobra"
)

var (
	createHomesteadDir  string
	createSkipProvision bool
	createTimeout       time.Duration
)

var introMessages = []string{
	"🙃 Nice. Another side project to work on for an hour or two and leave to rot",
	"Great. Lets get started 👍🏻",
	"Well this is exciting 🥳",
	`Reckon this will be "the one"? 🤔`,
}

// stageDescriptions are the progress lines printed for each provisioning stage.
var stageDescriptions = map[string]string{
	provision.StageFrontendDependencies: "Installing frontend dependencies",
	provision.StageRegister:             "Registering the project with Homestead and reloading the VM",
	provision.StageBackendDependencies:  "Installing backend dependencies",
	provision.StageAppKey:               "Generating the application key",
	provision.StageMigrate:              "Migrating the database",
	provision.StageIssueCredentials:     "Issuing API client credentials",
	provision.StageInjectCredentials:    "Writing credentials to the frontend",
	provision.StageCreateAdmin:          "Creating the admin account",
}

func init() {
	createCmd.Flags().StringVarP(&createHomesteadDir, "homestead-dir", "d", "", "Path to the Laravel Homestead installation (default: configured homestead_directory)")
	createCmd.Flags().BoolVar(&createSkipProvision, "skip-provision", false, "Stop after scaffolding; do not touch Homestead")
	createCmd.Flags().DurationVar(&createTimeout, "timeout", 0, "Deadline for each provisioning command, 0 for none (default: configured remote_timeout)")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new project",
	Long: `Create a new project from the backend and frontend templates and provision it on Homestead.

Examples:
  ` + branding.CLIName() + ` create "My Project"
  ` + branding.CLIName() + ` create shop -d ~/Homestead
  ` + branding.CLIName() + ` create shop --skip-provision`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	p := ui.NewPrinter(out)
	prompter := ui.NewPrompter(cmd.InOrStdin(), out)

	p.Info("%s", introMessages[rand.Intn(len(introMessages))])

	nameArg := ""
	if len(args) == 1 {
		nameArg = args[0]
	}
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(errors.EFilesystem, "getwd", ".", err)
	}

	proj, err := promptProject(prompter, nameArg, cwd, !createSkipProvision)
	if err != nil {
		return err
	}

	// Resolve everything provisioning needs before any side effects.
	var (
		prov *provision.Provisioner
		ip   string
	)
	if !createSkipProvision {
		timeout, err := config.RemoteTimeout(cfg)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("timeout") {
			timeout = createTimeout
		}
		runner := &remote.ShellRunner{Stdout: out, Stderr: cmd.ErrOrStderr(), Stdin: prompter.Reader()}
		prov, ip, err = newProvisioner(prompter, cfg, proj, createHomesteadDir, runner, timeout)
		if err != nil {
			return err
		}
	}

	repl := project.NewReplacements(proj)

	p.Info("Two secs, just downloading the template projects")
	res, err := scaffold.Generate(ctx, templates.NewFetcher(), proj, templateSpecs(cfg), repl)
	if err != nil {
		return err
	}
	printScaffold(p, res)

	if createSkipProvision {
		p.Info("\nNext steps:")
		p.Info("  1. Add %s to your Homestead.yaml", proj.Subdir(templates.KeyBackend))
		p.Info("  2. Run npm install in %s", proj.Subdir(templates.KeyFrontend))
		return nil
	}

	p.Info("\nCool. Now lets get you setup")
	prov.OnStage = func(i, n int, name string) {
		p.Step(i, n, stageDescriptions[name])
	}
	st, err := prov.Run(ctx, provision.State{Project: proj, Replacements: repl})
	if st.Manifest != nil {
		printManifest(p, st.Manifest)
	}
	if err != nil {
		return err
	}

	printHosts(p, ip, proj)
	p.Success("\nAll done. %s is at http://%s:%d", proj.DisplayName, proj.FrontendURL, proj.FrontendPort)
	return nil
}

// promptProject asks for the project's name and identifiers. URLs, port and
// database name default to values derived from the machine name.
func promptProject(pr *ui.Prompter, nameArg, parentDir string, withAdmin bool) (project.Project, error) {
	name, err := pr.AskValid("Project Name", nameArg, 3, required("project name"))
	if err != nil {
		return project.Project{}, usageError("project-name", err)
	}

	machine, err := pr.AskValid("Machine Name (nothing weird)", naming.Normalize(name), 3, validateMachineName)
	if err != nil {
		return project.Project{}, usageError("machine-name", err)
	}

	proj, err := project.New(name, machine, parentDir)
	if err != nil {
		return project.Project{}, err
	}
	if _, err := os.Lstat(proj.RootDirectory); err == nil {
		return project.Project{}, errors.New(errors.EFilesystem, "create", proj.RootDirectory, "directory already exists")
	}

	if proj.APIURL, err = pr.Ask("API URL", proj.APIURL); err != nil {
		return project.Project{}, err
	}
	if proj.BackofficeURL, err = pr.Ask("Backoffice URL", proj.BackofficeURL); err != nil {
		return project.Project{}, err
	}
	if proj.FrontendURL, err = pr.Ask("Frontend URL", proj.FrontendURL); err != nil {
		return project.Project{}, err
	}

	port, err := pr.AskValid("Frontend Port", strconv.Itoa(proj.FrontendPort), 3, validatePort)
	if err != nil {
		return project.Project{}, usageError("frontend-port", err)
	}
	proj.FrontendPort, _ = strconv.Atoi(port)

	if proj.DatabaseName, err = pr.Ask("Database Name", proj.DatabaseName); err != nil {
		return project.Project{}, err
	}

	if withAdmin {
		if proj.Admin.Name, err = pr.AskValid("Admin Name", "", 3, required("admin name")); err != nil {
			return project.Project{}, usageError("admin-name", err)
		}
		if proj.Admin.Email, err = pr.AskValid("Admin Email", "", 3, validateEmail); err != nil {
			return project.Project{}, usageError("admin-email", err)
		}
	}
	return proj, nil
}

// newProvisioner resolves the Homestead directory, manifest, IP and guest
// paths, prompting for and persisting any that are not configured yet.
func newProvisioner(pr *ui.Prompter, s config.Store, proj project.Project, dirFlag string, runner remote.Runner, timeout time.Duration) (*provision.Provisioner, string, error) {
	dir := config.ExpandHome(dirFlag)
	if dir == "" {
		dir = config.HomesteadDir(s)
	}
	if dir == "" {
		var err error
		if dir, err = promptHomesteadDir(pr, s); err != nil {
			return nil, "", err
		}
	}

	manifest := config.ExpandHome(s.Get(config.KeyHomesteadManifest))
	if manifest == "" {
		manifest = filepath.Join(dir, config.ManifestFileName)
	}

	ip := s.Get(config.KeyIPAddress)
	if ip == "" {
		var err error
		if ip, err = promptIPAddress(pr, s); err != nil {
			return nil, "", err
		}
	}

	guestRoot := config.GuestCodeRoot(s)
	return &provision.Provisioner{
		Remote: &remote.Orchestrator{
			HomesteadDir: dir,
			GuestPath:    provision.GuestPath(guestRoot, proj.MachineName),
			Runner:       runner,
			Timeout:      timeout,
		},
		ManifestPath: manifest,
		GuestRoot:    guestRoot,
	}, ip, nil
}

// templateSpecs returns the built-in templates with any configured URL overrides.
func templateSpecs(s config.Store) []templates.Spec {
	specs := templates.Defaults()
	for i := range specs {
		specs[i].SourceURL = config.TemplateURL(s, specs[i].Key, specs[i].SourceURL)
	}
	return specs
}

func printScaffold(p *ui.Printer, res *scaffold.Result) {
	p.Success("Created %s", res.OutputDir)
	for _, key := range res.Templates {
		p.Muted(key + "/")
	}
	p.Muted(fmt.Sprintf("%d file(s) filled in", len(res.Files)))
	if len(res.Pending) > 0 {
		p.Muted("filled in later: " + strings.Join(res.Pending, ", "))
	}
}

func printManifest(p *ui.Printer, res *homestead.AddResult) {
	for _, s := range res.Skipped.Sites {
		p.Warn("Homestead.yaml already maps %s, left unchanged", s.Map)
	}
	for _, db := range res.Skipped.Databases {
		p.Warn("Homestead.yaml already lists database %s, left unchanged", db)
	}
}

// printHosts prints the hosts-file lines needed to reach the project.
func printHosts(p *ui.Printer, ip string, proj project.Project) {
	p.Info("\nAdd the following to your hosts file:")
	for _, line := range hostsLines(ip, proj) {
		p.Info("  %s", line)
	}
}

func hostsLines(ip string, proj project.Project) []string {
	lines := make([]string, 0, len(proj.Hosts()))
	for _, host := range proj.Hosts() {
		lines = append(lines, ip+" "+host)
	}
	return lines
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validateMachineName(s string) error {
	if !naming.Valid(s) {
		return fmt.Errorf("invalid machine name %q: must match [a-z0-9-]+", s)
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q: must be 1-65535", s)
	}
	return nil
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("invalid email %q", s)
	}
	return nil
}

func usageError(op string, err error) error {
	return &errors.Error{Code: errors.EUsage, Op: op, Cause: err}
}
