package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Keys persisted in the config file.
const (
	KeyHomesteadDirectory = "homestead_directory"
	KeyHomesteadManifest  = "homestead_manifest"
	KeyIPAddress          = "ip_address"
	KeyGuestCodeRoot      = "guest_code_root"
	KeyRemoteTimeout      = "remote_timeout"
	KeyTemplatesPrefix    = "templates."
)

// Defaults offered at the setup prompts or used when a key is unset.
const (
	DefaultHomesteadDirectory = "~/Homestead"
	DefaultIPAddress          = "192.168.10.10"
	DefaultGuestCodeRoot      = "/home/vagrant/code"
	ManifestFileName          = "Homestead.yaml"
)

// HomesteadDir returns the configured Homestead directory with ~ expanded,
// or "" if setup has not been run.
func HomesteadDir(s Store) string {
	return ExpandHome(s.Get(KeyHomesteadDirectory))
}

// ManifestPath returns the Homestead.yaml path: homestead_manifest if set,
// otherwise Homestead.yaml inside the Homestead directory.
func ManifestPath(s Store) string {
	if p := s.Get(KeyHomesteadManifest); p != "" {
		return ExpandHome(p)
	}
	dir := HomesteadDir(s)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ManifestFileName)
}

// GuestCodeRoot returns the directory inside the VM that holds project checkouts.
func GuestCodeRoot(s Store) string {
	if p := s.Get(KeyGuestCodeRoot); p != "" {
		if trimmed := strings.TrimRight(p, "/"); trimmed != "" {
			return trimmed
		}
		return "/"
	}
	return DefaultGuestCodeRoot
}

// RemoteTimeout returns the per-command deadline; 0 means none.
func RemoteTimeout(s Store) (time.Duration, error) {
	raw := s.Get(KeyRemoteTimeout)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", KeyRemoteTimeout, raw, err)
	}
	return d, nil
}

// TemplateURL returns the archive URL override for a template key, or fallback.
func TemplateURL(s Store, key, fallback string) string {
	if u := s.Get(KeyTemplatesPrefix + key); u != "" {
		return u
	}
	return fallback
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
