// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API to write stock photography titles and keywords
// for an image.
//
// This package is an infrastructure adapter: it translates between the
// application's domain models and the Gemini API without exposing the details
// of the external service to the rest of the application.
//
// Key components:
//
// 1. Generator:
//   - Implements the generation.Generator interface
//   - Sends the image bytes inline together with a text prompt
//   - Requests JSON output constrained by a response schema
//
// 2. Prompt Management:
//   - Ships a built-in prompt template
//   - Optionally loads an override template from a file
//   - Substitutes the requested title and keyword counts
//
// 3. Error Handling:
//   - Retries transient API failures through generation.RetryPolicy
//   - Maps safety blocks and malformed responses to generation errors
//
// The package depends on the google.golang.org/genai client library.
package gemini
