// Package cache provides a byte-budget LRU for archive blocks.
//
// Repeated inspect and decompress calls against the same archive re-read
// the same frame regions. The LRU keeps recently read blocks keyed by
// archive name and block index, with the total held bytes capped and,
// optionally, charged against a resource.Controller so cached blocks count
// toward the process memory budget.
package cache
