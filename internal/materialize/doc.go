// Package materialize turns one manifest.Spec into files on disk.
//
// Each repository runs through a small state machine:
//
//	parsed -> cloning -> cloned -> locating -> copying -> done
//	             |                     |           |
//	             +-> skipped           +-> failed  +-> failed
//	             +-> failed
//
// Every step reports a StepResult (Success, Skipped or Fatal). A Skipped
// clone ends the repository without touching its destination; a Fatal result
// ends the whole run. The clone always goes into a scoped temporary
// directory that is removed before Materialize returns.
package materialize
