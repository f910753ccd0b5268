// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Owner Keys

Owner keys use HMAC-SHA256 to create deterministic, verifiable keys:

	ownerKey := auth.GenerateOwnerKey(planID, salt)
	err := auth.ValidateOwnerKey(planID, ownerKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same plan ID and salt always produce the same key. This allows validation
without storing the key in the database.

# Share Slugs

Share slugs create URL-friendly identifiers for plans:

	slug := auth.GenerateShareSlug(planID, salt)

Slugs are base62 encoded (alphanumeric only) for easy sharing. Like owner
keys, they're deterministic from the plan ID and salt.
*/
package auth
