// Package mocks provides test doubles for the store and service
// interfaces. Each mock carries function fields for per-test overrides
// and a usable in-memory default implementation.
package mocks
