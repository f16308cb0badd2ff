// Package service contains the application use cases. TaskService orchestrates
// the domain model and the stores defined in internal/store: it validates input
// before any mutation, applies transactional boundaries around multi-statement
// writes and records operation metrics.
//
// The service depends on domain entities and store interfaces, never on a
// specific infrastructure implementation.
package service
