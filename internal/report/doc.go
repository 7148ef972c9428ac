// Package report renders corpus statistics.
//
// This package contains writers for different output formats:
//   - TextWriter: the fixed-layout text report with an optional histogram
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for experiment notes
//
// NewWriter picks the writer for a Format.
package report
