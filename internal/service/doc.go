// Package service groups the application services that sit between the HTTP
// handlers and the stores.
//
// Subpackages:
//
//   - auth: JWT issuance and validation, bcrypt password hashing
//
// Services receive their dependencies through constructors and depend on
// store interfaces, never on a concrete database.
package service
