// Package textutil provides the text helpers shared by the import pipeline,
// the word repository, and the CLI.
//
// The primary use cases are:
//   - Folding candidates into comparison keys (NFKC, case folding, diacritic removal)
//   - Stripping symbols and collapsing whitespace in untrusted input
//   - Sanitizing the ordered string lists stored on words
//   - Edit distance for correction suggestions
//   - Sanitizing filenames for exported reports
package textutil
