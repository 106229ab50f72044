// Package config defines the application configuration structure and its
// loading logic. Values come from defaults, an optional config.yaml, and
// environment variables with the TASKTRACKER_ prefix, in increasing order
// of precedence.
package config
