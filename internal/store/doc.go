// Package store provides SQLite-backed durable storage for log records.
//
// The store keeps a single table of records, bounded by a capacity that
// is enforced on every write:
//   - Append: insert one record and evict everything outside the newest
//     capacity rows, in one transaction
//   - Clear: delete every row in one transaction
//
// # Ordering
//
// Rows get an AUTOINCREMENT id at insert time. Retention and read-back
// both order by id, never by created_at, so two records stamped in the
// same millisecond still have a deterministic order.
//
// # Database Configuration
//
//   - WAL mode: readers do not block the writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - one open connection: SQLite allows one writer at a time
//
// # Schema Versions
//
//	1 - initial table, no tag column
//	2 - tag TEXT NOT NULL DEFAULT '' plus an index on created_at
//
// Upgrades from version 1 are additive unless the caller opts into
// WithDestructiveMigration, which drops and recreates the table.
package store
