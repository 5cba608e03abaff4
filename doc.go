/*
Package jwx signs, parses and verifies JSON Web Tokens in compact
serialization, together with the JSON Web Keys and key sets that carry
the RSA material for them.

# Overview

The package is deliberately narrow: RS256 (RSASSA-PKCS1-v1_5 over
SHA-256) is the only signing algorithm, keys travel as JWK documents,
and every failure is classified by a small closed error taxonomy. In
exchange, the behavior is easy to hold in your head:

  - Tokens verify over the exact bytes received. The signing input is
    the two leading segments as they appeared on the wire, never a
    re-serialization, so interoperability does not depend on JSON
    field order or whitespace.
  - Signing is deterministic. Equal payloads under equal keys produce
    byte-identical tokens, also across process restarts.
  - Parsing never evaluates claims on its own. Expiry and friends are
    checked only when validation is requested, and revocation only
    when a Blocklist is attached.

# Token Lifecycle

Sign builds and signs a token; Verify checks one against a key; Decode
inspects one without any verification. The Parser builder underneath
exposes the individual switches:

	token, err := jwx.Sign(key, jwx.Map{"sub": "1234567890"},
	    jwx.MaxAge(15*time.Minute))

	claims, err := jwx.From[MyClaims](token).
	    WithVerificationKey(key).
	    WithValidation(jwx.Leeway(30*time.Second)).
	    Parse()

# Key Management

Keys come from JWK documents (ParseKey), JWKS documents (ParseKeySet),
PEM material (ParsePrivateKeyPEM with NewPrivateKey) or a remote JWKS
endpoint (NewRemoteKeySet, which caches, refreshes on unknown key ids
and serves stale keys when the issuer is briefly unreachable):

	keys := jwx.NewRemoteKeySet("https://idp.example.com/.well-known/jwks.json")
	claims, err := jwx.VerifyWithRemoteSet[MyClaims](ctx, keys, token)

# Sessions

SignTokenPair issues an access/refresh pair sharing one "jti" claim,
ReissueAccessToken exchanges a refresh token for a fresh access token,
and Blocklist revokes by "jti" before natural expiry:

	pair, err := jwx.SignTokenPair(key, accessClaims, refreshClaims,
	    15*time.Minute, 30*24*time.Hour)

	blocklist := jwx.NewBlocklist(1 * time.Hour)
	claims, err := jwx.Verify[MyClaims](token, key, blocklist)

# Errors

Every token and key operation fails with an *Error carrying a Kind and
a stable message; switch on the kind or compare with errors.Is:

	_, err := jwx.Verify[jwx.Map](token, key)
	switch jwx.KindOf(err) {
	case jwx.KindExpired:
	    // ask the client to refresh
	case jwx.KindCertificate:
	    // signature mismatch, reject loudly
	}
*/
package jwx
