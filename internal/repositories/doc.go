// Package repositories implements durable backends for the token store.
//
// Both backends satisfy [tokens.Store] and treat an empty value as absent.
//
// Key Implementations:
//   - [SQLiteStore] : key/value rows in the token_store table, created by the embedded migrations
//   - [BoltStore] : a single bbolt bucket, for setups that would rather avoid cgo
//
// [Open] selects one from the storage section of the config.
package repositories
