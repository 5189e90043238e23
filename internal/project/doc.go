// Package project holds the Project value that flows through scaffolding and
// provisioning, the URL and database defaults derived from its machine name,
// and the Replacements map used to fill {[key]} placeholders in templates.
package project
