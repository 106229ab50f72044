// Package domain defines the core business entities of the task tracker:
// users, tasks and the transient task views assembled by the reference
// resolver. Entities validate themselves; persistence and hydration live
// in the store and service layers.
package domain
