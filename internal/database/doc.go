// Package database stores saved corpus statistics in SQLite.
//
// The HistoryDB keeps one row per saved `info` run: a random run id,
// the input name, the time it was saved, the headline counts, and the
// complete summary as JSON. The database is a single file in the user's
// data directory, opened with the CGO-free modernc.org/sqlite driver
// in WAL mode.
package database
