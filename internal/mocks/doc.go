// Package mocks provides in-memory implementations of the store
// interfaces for testing. The fakes honor the store contracts (not-found
// sentinels, idempotent deletes, subset semantics of bulk lookups) and
// expose function fields to override individual operations per test.
package mocks
