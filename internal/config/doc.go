// Package config provides configuration structures and utilities for corpustools.
// It defines the options shared by the corpus statistics, cleaning, CoNLL-U
// and GPU subcommands, and loads optional defaults from a configuration file.
package config
