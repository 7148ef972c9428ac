// Package clean filters parallel corpora pair by pair.
//
// A parallel corpus is a prefix plus two language extensions, for example
// train.en and train.de. The Cleaner reads both sides in lockstep, asks a
// Filter whether to keep each pair, and writes kept lines unchanged to the
// cleaned corpus. Auxiliary label files aligned with the corpus (train.tag)
// follow the same decisions, so they stay aligned after cleaning.
package clean
