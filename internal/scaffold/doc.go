// Package scaffold turns downloaded templates into a project tree. Generate
// fetches and installs every template, materializes each .env, and runs the
// substitution engine, which replaces {[key]} placeholder tokens across the
// installed files. Substitute can be re-run later with an extended map to
// fill tokens whose values were not known on the first pass.
package scaffold
