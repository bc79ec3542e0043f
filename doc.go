/*
Package ponder provides a sequential thinking tracker and an arXiv paper
search client for tool-calling agent hosts.

The thinking tracker is the core: a small state machine that accepts a
stream of thought records, validates and normalizes them, maintains an
append-only history plus a branch index, and reports session summaries.
The arXiv client is a thin pass-through over the arXiv query API.

# Usage

Wire a Service and expose it over MCP:

	package main

	import (
		"github.com/ponderworks/ponder"
		mcpadapter "github.com/ponderworks/ponder/pkg/adapters/mcp"
	)

	func main() {
		svc := ponder.New(ponder.Config{})
		defer svc.Close()

		srv := mcpadapter.NewServer("ponder-mcp", ponder.Version, svc.Thinking, svc.Papers)
		if err := srv.ServeStdio(); err != nil {
			panic(err)
		}
	}

Both spellings of thought payload keys are accepted (thoughtNumber or
thought_number); keys are canonicalized once at the adapter boundary.
*/
package ponder
