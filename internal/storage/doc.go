// Package storage provides the optional delivery log.
//
// Every processed recipient yields one AttemptEntry (outcome, timing,
// dry-run flag). The log supports manual follow-up: failed addresses from a
// previous run can be collected into a corrected roster and resent.
package storage
