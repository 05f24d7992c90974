// Package service provides the application-level analysis workflow. It ties
// the metadata generator, thumbnail creation and history store together and
// drives a batch of images through the bounded concurrency runner.
package service
