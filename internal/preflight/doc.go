// Package preflight provides readiness checks for the filesystem paths and
// database that wordcore depends on.
//
// The CLI "wordcore doctor" command runs RunAll and renders each Result; the
// daemon runs the directory checks before binding its socket so a read-only
// data directory fails at startup instead of on the first write.
package preflight
