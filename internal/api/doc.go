// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the internal application services, translating HTTP concerns to
// business operations.
//
// Every response uses the envelopes from the shared package:
// {"success": true, "data": ...} on success and
// {"success": false, "error": {"message", "status", "trace_id"}} on failure.
package api
