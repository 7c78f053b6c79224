// Package auth mints the short-lived bearer tokens the probe presents to an
// authenticated health endpoint.
//
// Tokens are HS256 JWTs carrying iss, aud, sub, iat and exp claims. The
// application verifies them with the same shared secret; Verify performs the
// same validation and is what the application side is expected to run.
package auth
