/*
Package domain contains the core domain models for Ponder.

It defines the validated unit of a reasoning trace (ThoughtRecord), the
paper model returned by the arXiv collaborator (Paper), and the error kinds
shared across adapters. The package is kept pure: no I/O, no persistence,
no logging.
*/
package domain
