// Package service contains the application's business logic: the reference
// resolver that hydrates task views, the task service orchestrating task
// CRUD with existence validation, and the user service with its cascading
// delete across the task collection.
package service
