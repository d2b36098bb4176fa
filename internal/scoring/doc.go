// Package scoring rates raw import candidates and proposes a canonical
// spelling for each.
//
// Scorer is the narrow interface the import pipeline depends on. The
// DictionaryScorer repairs common OCR confusions (digits and symbols for
// letters, "rn" for "m") and snaps candidates within two edits of a known
// word, lowering confidence with each repair. CorrectionScorer layers the
// learner's correction history on top of any Scorer so lemmas a parent has
// corrected before are suggested again and always held for confirmation.
package scoring
