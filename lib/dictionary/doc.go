// Package dictionary provides the shared word store of the wordkv server: an in-memory
// map from a word to its ordered list of meanings, persisted as a single file.
//
// The package focuses on:
//   - Five atomic operations (GetMeaning, AddNewWord, RemoveWord, AddNewMeaning, UpdateMeaning)
//   - Domain errors as values: every operation returns a Result whose Output is tagged
//     with "SUCCESS:" or "ERROR:" (or is the numbered list of meanings); no operation fails
//     with a Go error
//   - Whole-file persistence with pluggable codecs (plain JSON or zstd-compressed JSON)
//
// Key Components:
//
//   - IDictionary: The interface used by the server. It is implemented by the store
//     returned from Open.
//
//   - Result: The outcome of one operation. Changed reports whether the map was mutated,
//     which lets callers persist only after mutations.
//
//   - Codec: Encodes and decodes the persisted file. The codec is selected from the file
//     extension (".zst" selects zstd, everything else plain JSON).
//
// Thread Safety:
//
//	All operations, including Save and Snapshot, are serialized by one store-wide mutex.
//	Concurrent sessions therefore observe the dictionary in a single total order.
package dictionary
