// Package jsondb provides a generic, concurrent-safe, JSON-file-backed table.
//
// # Overview
//
// The package centers around [Table], a generic container that stores rows as
// a single pretty-printed JSON array per collection, with full in-memory
// caching for fast reads. Tables are safe for concurrent use by multiple
// goroutines.
//
// # Concurrency: Pessimistic Locking
//
// Table uses pessimistic locking: [Table.Modify] holds the table lock for the
// entire read-modify-write operation, including the synchronous rewrite of
// the whole file. Readers serialize behind writers on the same lock. This
// guarantees success without retries; the tradeoff is lower throughput under
// contention, which is acceptable for single-user local storage.
//
// # File Format
//
// One JSON array of objects per collection. The whole array is rewritten on
// every mutation, through a temp file and rename so a torn write is never
// observable. A missing or malformed file is treated as an empty collection.
package jsondb
