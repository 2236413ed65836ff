// Package runlog records the lifecycle of sync runs in the append-only run
// log. Every pipeline stage runs inside Tracker.Track, which is the single
// place a run is completed or failed.
package runlog
