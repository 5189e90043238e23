// Package naming derives machine names from human-entered project names. A
// machine name is lowercase, contains only [a-z0-9-], and is safe to use as a
// directory name, a hostname label and a database name stem.
package naming
