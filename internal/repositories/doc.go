// Package repositories contains the SQLite-backed persistence layer.
//
// Two tables back the application. The documents table holds the whole
// playlist collection as one JSON document keyed by a well-known string, so
// a save is a single atomic upsert and a load is a single read. The
// search_cache table memoizes acquisition search results per normalized
// query with a TTL, so repeated searches skip the network.
package repositories
