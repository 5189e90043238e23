// Package templates acquires the remote zip archives a new project is
// scaffolded from. The Fetcher downloads each archive with caching disabled,
// Install extracts it and renames the archive's single top-level directory
// (e.g. "API-Base-master") to the template's logical key, and
// MaterializeDotEnv copies .env.example to .env in the installed tree.
package templates
