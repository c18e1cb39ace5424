// Package storage provides the key-value persistence layer for Gatelink Core.
//
// The Store interface is the contract every other component depends on:
// get/set/multi-get/multi-remove/list-keys, all context-aware, all capable
// of failing with an error wrapping ErrIO. Two implementations are provided:
//
//   - SQLiteStore: the production backend, a single kv(key, value) table
//     with WAL mode and a single-writer connection pool.
//   - MemoryStore: an in-memory map for tests and ephemeral runs.
//
// No multi-key operation is atomic. Callers that perform several writes in
// sequence (cascading deletes, restore) accept partial state on
// interruption; the store itself only guarantees per-operation durability.
package storage
