// Package sanitizer normalizes free-text booking input before validation and storage.
//
// All functions are idempotent: applying them twice gives the same result as applying
// them once. They never fail; input that normalizes to nothing comes back as "".
//
// Normalization includes:
//   - Single-line text (names): trim, collapse every whitespace run to one space
//   - Multi-line text (descriptions): trim, drop control characters, keep line breaks,
//     collapse runs of spaces and tabs inside each line
package sanitizer
