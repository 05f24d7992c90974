// Package history persists past analysis results on the local machine.
//
// The Store interface describes the operations the rest of the application
// needs. FileStore implements it as a single JSON document on an afero
// filesystem, holding at most a configured number of items, newest first,
// and within a configured byte quota.
package history
