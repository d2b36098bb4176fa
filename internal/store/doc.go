// Package store persists learners, their lexicon, scheduling state, review
// log, import batches, and the correction ledger in SQLite.
//
// The Store owns the only connection to the database and exposes typed
// operations rather than raw SQL. Multi-step writes run through InTx so a
// review (SRS upsert plus review row) or a batch commit (word inserts plus
// item decisions plus envelope transition) lands atomically. Busy errors are
// retried with exponential backoff and surface as services.ErrTransient once
// the configured attempts run out.
//
// Schema changes bump the version in schema.go. A database written by a
// different version is rejected with ErrSchemaMismatch; back it up with the
// CLI and recreate it.
package store
