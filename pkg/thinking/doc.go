/*
Package thinking implements the sequential thinking tracker.

The Store accepts validated thought records, maintains an append-only
history plus a branch index for the lifetime of the process, and projects
read-only session summaries. An optional Formatter renders each recorded
thought as a framed diagnostic block for log output.
*/
package thinking
