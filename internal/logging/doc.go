// Package logging constructs the process-wide slog logger and provides
// typed attribute helpers shared by the pipeline, store, and CLI.
//
// Two output formats are supported: a human-oriented console format and
// line-delimited JSON. Both honour the configured level and can tee to the
// daemon log file alongside stdout.
package logging
