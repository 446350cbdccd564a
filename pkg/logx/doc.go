// Package logx configures coldmailer's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured (one record per line, append-only)
//
// Sinks and level can be swapped at runtime via Service.Apply, which is how
// a config reload mid-campaign adjusts logging without restarting the run.
package logx
