// Package clerk verifies Clerk-issued session tokens.
//
// Clerk signs session JWTs with RSA keys published at the instance's
// frontend API under /.well-known/jwks.json. The frontend API domain is
// not configured directly; it is recovered from the publishable key
// (pk_test_... / pk_live_...), whose third segment base64-encodes the
// domain.
//
// The key set is fetched exactly once, at startup, into an immutable
// KeyRing that is then shared read-only across request handlers. There is
// no background refresh: if Clerk rotates its signing keys the process
// must be restarted. This is a known limitation, not an accident.
//
// Verification accepts RS256 only. A token whose header claims any other
// algorithm is rejected before its key is even looked up. Audience
// validation is deliberately not performed because Clerk session tokens
// carry no conventional aud claim; azp is exposed to callers instead.
package clerk
