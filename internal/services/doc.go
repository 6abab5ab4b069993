// Package services defines the shared error taxonomy and context annotation
// helpers used across the delivery pipeline. Validation and computation paths
// return structured results; the sentinel markers here classify the errors
// that do propagate (collaborator I/O, configuration, connection state) so the
// orchestrator and CLI can decide how a failure should be recorded.
package services
