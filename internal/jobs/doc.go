// Package jobs holds the in-memory job registry and lifecycle model.
//
// The registry is deliberately not durable: restarting the daemon forgets
// every job while leaving generated caption files on disk.
package jobs
