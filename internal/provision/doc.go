// Package provision runs the ordered steps that turn a scaffolded project
// into a working Homestead site: install frontend dependencies, register the
// project in Homestead.yaml and reload the VM, install backend dependencies,
// generate the app key, migrate, issue OAuth credentials, write those
// credentials into the frontend, and create the admin account.
//
// Stages execute in a fixed order and stop at the first failure. Nothing is
// retried or rolled back.
package provision
