// Package domain contains the core business entities, value objects, and
// domain logic of the application: tasks, tags, the list filter and the
// partial-update model. It is independent of any specific infrastructure
// or delivery mechanism.
package domain
