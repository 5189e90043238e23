package templates

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/base-cli/base/internal/errors"
)

// zipEntry is a file (or directory when body is nil and name ends in "/") in a test archive.
type zipEntry struct {
	name string
	body string
}

func createTestZip(t *testing.T, entries []zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		if e.body != "" {
			if _, err := w.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func githubShapedZip(t *testing.T) []byte {
	return createTestZip(t, []zipEntry{
		{name: "API-Base-main/"},
		{name: "API-Base-main/.env.example", body: "APP_URL=http://{[apiUrl]}\n"},
		{name: "API-Base-main/app/"},
		{name: "API-Base-main/app/Kernel.php", body: "<?php // {[name]}\n"},
	})
}

func TestFetch(t *testing.T) {
	archive := githubShapedZip(t)

	var cacheControl string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cacheControl = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(archive)))
		w.Write(archive)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "backend.zip")
	f := NewFetcher(WithHTTPClient(server.Client()))
	if err := f.Fetch(context.Background(), server.URL+"/master.zip", dest); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if cacheControl != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", cacheControl)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading download: %v", err)
	}
	if !bytes.Equal(got, archive) {
		t.Errorf("downloaded %d bytes, want %d", len(got), len(archive))
	}
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Error(".part file should be gone after a successful download")
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "frontend.zip")
	err := NewFetcher(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL, dest)
	if errors.GetCode(err) != errors.ENetwork {
		t.Fatalf("code = %q, want %q (err: %v)", errors.GetCode(err), errors.ENetwork, err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("no file should be written on a failed download")
	}
}

func TestFetchTruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.Write([]byte("short"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "backend.zip")
	err := NewFetcher(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL, dest)
	if err == nil {
		t.Fatal("expected error for truncated body")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("partial download must not be reported at the destination")
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := NewFetcher().Fetch(context.Background(), url, filepath.Join(t.TempDir(), "x.zip"))
	if errors.GetCode(err) != errors.ENetwork {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ENetwork)
	}
}

func TestInstallRenamesTopLevelDirectory(t *testing.T) {
	projectDir := t.TempDir()
	archivePath := filepath.Join(projectDir, "backend.zip")
	os.WriteFile(archivePath, githubShapedZip(t), 0644)

	if err := Install(archivePath, projectDir, "backend"); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(projectDir, "backend", "app", "Kernel.php")); err != nil {
		t.Errorf("backend/app/Kernel.php missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "API-Base-main")); !os.IsNotExist(err) {
		t.Error("API-Base-main should have been renamed")
	}
	if _, err := os.Stat(archivePath); !os.IsNotExist(err) {
		t.Error("archive should be deleted after install")
	}
}

func TestInstallWithoutDirectoryEntries(t *testing.T) {
	projectDir := t.TempDir()
	archivePath := filepath.Join(projectDir, "frontend.zip")
	os.WriteFile(archivePath, createTestZip(t, []zipEntry{
		{name: "Frontend-Base-master/package.json", body: "{}"},
		{name: "Frontend-Base-master/src/main.js", body: "// {[apiUrl]}"},
	}), 0644)

	if err := Install(archivePath, projectDir, "frontend"); err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "frontend", "src", "main.js")); err != nil {
		t.Errorf("frontend/src/main.js missing: %v", err)
	}
}

func TestInstallArchiveFormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		entries []zipEntry
	}{
		{"empty archive", nil},
		{"top-level file first", []zipEntry{{name: "README.md", body: "hi"}}},
		{"path traversal", []zipEntry{{name: "repo/"}, {name: "repo/../../evil", body: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectDir := t.TempDir()
			archivePath := filepath.Join(projectDir, "t.zip")
			os.WriteFile(archivePath, createTestZip(t, tt.entries), 0644)

			err := Install(archivePath, projectDir, "backend")
			if errors.GetCode(err) != errors.EArchiveFormat {
				t.Errorf("code = %q, want %q (err: %v)", errors.GetCode(err), errors.EArchiveFormat, err)
			}
		})
	}
}

func TestInstallNotAZip(t *testing.T) {
	projectDir := t.TempDir()
	archivePath := filepath.Join(projectDir, "t.zip")
	os.WriteFile(archivePath, []byte("<html>rate limited</html>"), 0644)

	err := Install(archivePath, projectDir, "backend")
	if errors.GetCode(err) != errors.EArchiveFormat {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EArchiveFormat)
	}
}

func TestInstallTargetExists(t *testing.T) {
	projectDir := t.TempDir()
	os.Mkdir(filepath.Join(projectDir, "backend"), 0755)
	archivePath := filepath.Join(projectDir, "backend.zip")
	os.WriteFile(archivePath, githubShapedZip(t), 0644)

	err := Install(archivePath, projectDir, "backend")
	if errors.GetCode(err) != errors.EFilesystem {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EFilesystem)
	}
}

func TestMaterializeDotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "APP_NAME={[name]}\nAPP_URL=http://{[apiUrl]}\n"
	os.WriteFile(filepath.Join(dir, ".env.example"), []byte(content), 0644)

	if err := MaterializeDotEnv(dir); err != nil {
		t.Fatalf("MaterializeDotEnv() error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf(".env = %q, want verbatim copy %q", got, content)
	}
}

func TestMaterializeDotEnvMissingExample(t *testing.T) {
	err := MaterializeDotEnv(t.TempDir())
	if errors.GetCode(err) != errors.EFilesystem {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EFilesystem)
	}
}

func TestDefaultsOrder(t *testing.T) {
	specs := Defaults()
	if len(specs) != 2 || specs[0].Key != KeyBackend || specs[1].Key != KeyFrontend {
		t.Errorf("Defaults() = %+v, want backend then frontend", specs)
	}
}
