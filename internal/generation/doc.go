// Package generation defines the boundary between the application and the
// language model that writes stock metadata. It holds the Generator
// interface, the error taxonomy shared by implementations, the retry policy
// applied to model calls, and the normalization of raw model output into
// domain.StockMetadata. The Gemini implementation lives in
// internal/platform/gemini.
package generation
