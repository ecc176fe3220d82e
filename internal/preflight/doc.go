// Package preflight checks that the camera, output directories, and external
// programs are usable before a reader session starts.
//
// The run command calls RunAll and refuses to start when a required check
// fails; the status command renders every Result, including optional ones.
package preflight
