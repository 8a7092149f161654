// Package jobs provides scheduled background tasks for the lifecycle engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations around the order workflow.
//
// # Available Jobs
//
// 1. PendingSignatureJob - Runs hourly to raise alerts for orders whose
// delivery certificate (acta) has been waiting for a signature for more than
// seven days
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(escalateHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Escalation failures are logged and retried on the next tick
// - Alert writes are upserts, so repeated escalation of the same order is safe
package jobs
