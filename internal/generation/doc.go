// Package generation turns a user's raw text and a selected mode into a
// request for a generative-text provider, and turns the provider's reply
// back into a stable result.
//
// The package is organised as a small pipeline:
//
//  1. Mode registry (mode.go): the fixed set of supported modes and the
//     role, context, rules and output format each one sends to the model.
//  2. Prompt builder (prompt.go): validates the input and renders the
//     system and user text for a mode. Rendering is deterministic.
//  3. Client (client.go): the one-method interface over the provider. It is
//     the only place that performs network I/O; implementations live in
//     internal/platform/gemini (Gemini) and internal/mocks (scripted).
//  4. Response parser (parse.go): passes free text through and extracts and
//     schema-checks the JSON question set for generate_questions. A reply
//     that cannot be parsed is a degraded result, not an error.
//  5. Error classifier (classify.go): maps validation, provider and
//     unexpected failures onto a closed set of kinds with a status hint.
//
// Service ties the steps together and is safe for concurrent use; nothing in
// this package keeps state between calls.
package generation
