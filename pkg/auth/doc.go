// Package auth implements account credential handling and bearer-token
// authentication for the HTTP API.
//
// Passwords are hashed with bcrypt. Sessions are stateless: a login issues
// an HS256-signed JWT carrying the account id and email, and the middleware
// verifies it on every request, loads the account, and injects it into the
// request context.
package auth
