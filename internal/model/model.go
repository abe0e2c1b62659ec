// Package model contains the request and response shapes shared across layers.
// Nothing here outlives a single request.
package model
