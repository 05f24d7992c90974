// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to the settings needed by the generator, the batch runner, the
// history store and logging, while keeping configuration details separate
// from business logic.
package config
