// Package remote runs shell commands on the host and inside the Homestead VM.
//
// Orchestrator.BuildCommand wraps a command so it runs in the project's guest
// directory through "vagrant ssh -c", and Execute turns a non-zero exit into
// an E_REMOTE_EXECUTION error carrying the command, exit code and stderr.
// ParseCredentials recovers the client id and secret printed by
// "php artisan passport:install".
package remote
