// Package importer turns raw, untrusted word candidates into staged import
// batches and commits confirmed batches into the word repository.
//
// A batch moves STAGED -> COMMITTED exactly once. Preview scores every
// candidate through a scoring.Scorer, lemmatizes the suggestion, drops
// in-batch duplicates, and stages the result without touching words. Commit
// resolves each accepted item's final lemma and creates the word; a lemma
// the learner already owns is counted as a skipped duplicate rather than a
// failure. The whole commit runs in one store transaction.
//
// Text extraction (plain text, CSV, HTML articles) and the prompt-injection
// line filter live here too so every ingestion path shares them.
package importer
