// Package archive stores serialized snapshots under string keys.
//
// Four backends implement Store:
//
//   - MemoryStore keeps entries in a map, for tests.
//   - DiskStore writes one file per key under a directory.
//   - S3Store keeps objects in an S3 bucket under a prefix.
//   - SQLiteStore keeps rows in a SQLite table (modernc.org/sqlite).
//
// Keys are slash-separated paths such as "TestCounter/after-click.json".
// Get and Delete return ErrNotFound for unknown keys.
package archive
