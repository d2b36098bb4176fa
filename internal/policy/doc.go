// Package policy defines the parent-controlled settings object consumed by the
// session planner and import pipeline, together with the clamping rules that
// keep stored and user-supplied values inside their accepted ranges.
package policy
