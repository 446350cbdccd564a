// Package campaign implements the dispatch engine: it turns a template, a
// recipient roster and a pacing policy into a sequence of per-recipient
// delivery attempts with success/failure accounting.
//
// The engine is strictly sequential. One recipient is rendered and delivered
// at a time, with a jittered wait between attempts and a long cooldown every
// MaxPerWindow recipients. A failure (bad record, rejected delivery) is
// isolated to its recipient and never aborts the run.
//
// The concrete transport lives behind the Deliverer interface; see
// internal/mailer for the SMTP implementation.
package campaign
