// Package auth gates the casos API behind bearer tokens.
//
// Accounts live in the SQLite users table with Argon2id password hashes.
// A successful login returns an HS256 JWT carrying the user id and email;
// protected routes only check that the token is valid and unexpired, there
// are no roles or per-record permissions.
package auth
