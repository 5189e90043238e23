package templates

import (
	"io"
	"os"
	"path/filepath"

	"github.com/base-cli/base/internal/errors"
)

// Spec names one sub-project template and where to download it.
type Spec struct {
	Key       string // directory name inside the project, e.g. "backend"
	SourceURL string
}

// Logical template keys.
const (
	KeyBackend  = "backend"
	KeyFrontend = "frontend"
)

// Defaults returns the built-in templates in processing order.
func Defaults() []Spec {
	return []Spec{
		{Key: KeyBackend, SourceURL: "https://github.com/Johnathan/API-Base/archive/master.zip"},
		{Key: KeyFrontend, SourceURL: "https://github.com/Johnathan/Frontend-Base/archive/master.zip"},
	}
}

const (
	dotEnvExample = ".env.example"
	dotEnv        = ".env"
)

// MaterializeDotEnv copies <dir>/.env.example to <dir>/.env verbatim.
func MaterializeDotEnv(dir string) error {
	src := filepath.Join(dir, dotEnvExample)
	dst := filepath.Join(dir, dotEnv)

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(errors.EFilesystem, "copy-dotenv", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(errors.EFilesystem, "copy-dotenv", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrap(errors.EFilesystem, "copy-dotenv", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(errors.EFilesystem, "copy-dotenv", dst, err)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.EFilesystem, "copy-dotenv", dst, err)
	}
	return nil
}
