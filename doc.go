// Package auth implements a minimal user-record and authentication service:
// account registration, password sign-in that mints a signed bearer
// credential, client-side sign-out, and credential-gated self lookups.
//
// Credentials:
//   - TokenService signs a compact {id, email} claims payload (HS256) with an
//     expiry computed once at issuance; the same instant bounds the cookie the
//     HTTP layer sets, so header and cookie delivery never drift apart.
//   - Verification is binary. A token is either valid, or it maps to
//     ErrTokenExpired / ErrTokenMalformed; there is no soft-valid state and no
//     server-side revocation list.
//
// Request flow:
//   - Handlers are explicit function composition: bind payload, validate it,
//     run the access guard (middleware/jwtware) where required, then the
//     domain operation. Domain errors are rich errors carrying an HTTP code
//     that the response envelope translates at the boundary.
package auth
