// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Ruleout API server.

Ruleout is a date-elimination scheduler: a plan starts with a set of
candidate dates, and participants knock dates out by marking themselves
unavailable. What survives is when the group can meet. Mistaken marks can
be undone within a short window; the plan owner can force an eliminated
date back into play.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	OWNER_KEY_SALT=... SHARE_SLUG_SALT=... go run main.go

Or with flags:

	go run main.go -p 3319 -d "postgres://..." -t postgres

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - OWNER_KEY_SALT (--owner-salt): Secret for owner key HMAC
  - SHARE_SLUG_SALT (--slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3319)
  - DATABASE_URL (-d): Connection string (default: ruleout.db)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - RATE_LIMIT_RPS / RATE_LIMIT_BURST: Per-IP throttle on write routes

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (plans, participants, availability)
  - availability: Core elimination, undo, and reopen transactions
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - models: Request/response types and event payloads
  - auth: Owner key and share slug generation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
