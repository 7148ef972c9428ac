// Package conllu extracts dependency head indices from CoNLL-U files.
//
// Each sentence becomes one output line holding the HEAD column of its
// words, separated by single spaces. With full-width space splitting,
// a FORM that contains U+3000 is treated as several words, which keeps
// heads aligned with Japanese corpora tokenized on those spaces.
package conllu
