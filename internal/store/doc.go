// Package store defines the persistence interfaces consumed by the service
// layer: key lookups, bulk lookups, predicate scans and idempotent deletes
// over the task and user collections. The contract deliberately offers no
// referential integrity and no cross-collection transactions; existence
// checks and cascades belong to the services.
//
// Implementations live under internal/platform (PostgreSQL) and
// internal/mocks (in-memory, for tests).
package store
