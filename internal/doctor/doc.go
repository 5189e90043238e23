// Package doctor checks that the host is ready to provision projects: the
// vagrant and npm binaries are installed at supported versions, and the
// configured Homestead directory and manifest exist and are valid.
package doctor
