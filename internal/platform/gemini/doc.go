// Package gemini provides an implementation of the generation.Client interface
// backed by Google's Gemini API.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the generation pipeline to the external Gemini service through
// the google.golang.org/genai SDK. It sends one request per call and reports
// every failure as a *generation.ProviderError carrying whatever status, code
// and message the API exposed. Classification, retries and response parsing
// live in the generation package.
package gemini
