// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3319)
  - DatabaseURL: Connection string (default: ruleout.db)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - OwnerKeySalt: Secret for owner key HMAC (required)
  - ShareSlugSalt: Secret for share slug generation (required)
  - RateLimitRPS: Per-IP requests per second on write routes (default: 2)
  - RateLimitBurst: Per-IP burst allowance (default: 20)

# CLI Flags

	-p, --port         Server port
	-d, --database-url Database URL
	-t, --database-type Database type
	--owner-salt       Owner key salt
	--slug-salt        Share slug salt
	--rate             Rate limit RPS
	--burst            Rate limit burst

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	OWNER_KEY_SALT   → --owner-salt
	SHARE_SLUG_SALT  → --slug-salt
	RATE_LIMIT_RPS   → --rate
	RATE_LIMIT_BURST → --burst

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or invalid:

  - OWNER_KEY_SALT must be provided
  - SHARE_SLUG_SALT must be provided
  - DATABASE_TYPE must be "sqlite" or "postgres"
*/
package cliparse
