// Package retention prunes old validation runs from the run store.
//
// A Pruner deletes runs older than the configured retention window; a
// Scheduler runs it on a cron schedule.
package retention
