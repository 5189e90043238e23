//go:build integration

package integration_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/base-cli/base/internal/remote"
)

// templateServer serves GitHub-shaped zip archives keyed by request path.
func templateServer(t *testing.T, archives map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func githubZip(t *testing.T, top string, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.Create(top + "/")
	for name, body := range files {
		w, err := zw.Create(top + "/" + name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// vmRunner stands in for the host shell and the Homestead VM.
type vmRunner struct {
	failOn string
	calls  []string
}

func (v *vmRunner) Run(_ context.Context, cmd remote.Command) (remote.Result, error) {
	v.calls = append(v.calls, cmd.Line)
	if v.failOn != "" && strings.Contains(cmd.Line, v.failOn) {
		return remote.Result{ExitCode: 1, Stderr: v.failOn + " failed\n"}, nil
	}
	if strings.Contains(cmd.Line, "passport:install") {
		return remote.Result{Stdout: "Encryption keys generated successfully.\n" +
			"Password grant client created successfully.\nClient ID: 3\nClient secret: abc123\n"}, nil
	}
	return remote.Result{}, nil
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
