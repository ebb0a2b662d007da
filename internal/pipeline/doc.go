// Package pipeline executes the per-job stage sequence and guarantees
// scratch artifact cleanup.
package pipeline
