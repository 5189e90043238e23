// Package config manages user-level settings stored at ~/.base/config.yaml.
// A *Config is loaded once at process start and passed explicitly to the
// commands and the provisioner; the typed accessors read through the Store
// interface so tests can use an in-memory Memory store instead.
package config
