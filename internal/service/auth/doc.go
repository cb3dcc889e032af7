// Package auth issues and validates JWT access tokens and hashes user
// passwords with bcrypt.
package auth
