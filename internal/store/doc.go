// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. It also provides the transaction helper
// and the store-level error taxonomy shared by all implementations.
package store
