// Package services defines shared utilities consumed by the core components and
// the layers that call into them.
//
// Key responsibilities:
//   - Context helpers that stamp user, word, and batch identifiers plus
//     correlation ids for logging.
//   - Structured error markers (validation, not found, duplicate lemma, lemma
//     collision, invalid batch, transient) and the Wrap helper that keeps the
//     marker and the cause reachable through errors.Is.
//   - ErrorKind/MarkerForKind so the taxonomy survives the RPC boundary.
//
// Use these helpers when wiring new components so error classification and
// observability stay uniform across the repository, pipeline, and planner.
package services
