// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package supervisor runs reklawdbox-go's background services under a
suture v4 supervisor, giving Erlang/OTP-style automatic restart and
failure isolation to components that would otherwise need a hand-rolled
"wait for goroutine, restart on panic" loop.

# Overview

	SupervisorTree ("reklawdbox")
	└── authbroker.SessionSweeper

This server has exactly one long-running background component: the
broker-session expiry sweeper that clears a stale Discogs device-code
session from the cache store once it naturally expires (spec.md §3,
§4.8.1). Everything else this server does runs synchronously inside a
tool call. The single-supervisor shape here is a direct simplification
of tomtom215/cartographus's three-layer tree (data/messaging/api), which
supervised several independent long-running services; that layering
buys nothing with only one service to run.

# Usage

	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	tree.Add(authbroker.NewSessionSweeper(cache, brokerBaseURL, 0))
	go tree.Serve(ctx)

# Failure handling

Each service failure increments a counter that decays exponentially over
FailureDecay seconds. Once the counter exceeds FailureThreshold, restarts
are delayed by FailureBackoff. A service should return nil only when it
is done for good; returning an error (or panicking) triggers a restart.
*/
package supervisor
