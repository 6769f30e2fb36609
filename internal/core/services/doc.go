// Package services implements the driving port interfaces: ingestion,
// search, context assembly, answering, document management and settings.
// Services orchestrate the driven ports and hold no storage or transport
// code of their own.
//
// Batch ingestion runs on an ants worker pool, and document ids are
// name-based UUIDs, so re-ingesting a file replaces its chunks.
package services
