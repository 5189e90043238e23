// Package homestead reads and mutates the Laravel Homestead manifest
// (Homestead.yaml). AddProject appends a project's folder mapping, site
// mappings and database names, skipping any entry already present, and
// rewrites the file atomically. Edits are made on the YAML node tree so keys
// and comments the CLI does not manage are written back untouched.
package homestead
