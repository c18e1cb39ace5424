// Package backup exports the key-space to portable text and reconstructs
// it from files that real users actually produce: truncated downloads,
// payloads pasted with surrounding log output, hand-edited JSON with
// trailing commas, and exports from older releases that wrote a bare
// device array.
//
// The restore path is an ordered chain of progressively weaker, pure
// parsing strategies; the first success wins and nothing is fabricated
// beyond what the input actually contained. The final write phase is
// destructive and deliberately non-atomic: it tolerates partial success
// and fails only when nothing at all could be written.
package backup
