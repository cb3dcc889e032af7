// Package shared holds the request and response helpers used by both the
// api handlers and the api middleware: the JSON envelopes, body decoding and
// the request-scoped context values (trace ID, user ID).
package shared
