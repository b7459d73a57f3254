// Package checks provides ready-made post-run verifications for test cases.
// Every helper returns a domain.Check; paths are resolved against the case's
// working directory unless they are absolute.
//
// Checks run after the primary command succeeded and before cleanup, so they
// see exactly the artifacts the tool produced.
package checks
