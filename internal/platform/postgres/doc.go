// Package postgres implements the store interfaces using a PostgreSQL
// database as the storage backend.
//
// The schema deliberately carries no foreign keys between tasks and users:
// the store behaves like a document store with per-record atomicity only,
// and referential checks and cascades are performed by the service layer.
// The observer ID set of a task lives in the task_observers join table and
// is written in the same transaction as the task row.
package postgres
