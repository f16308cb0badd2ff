// Package ciutil detects the execution environment (CI or local) and resolves
// environment variables that have more than one accepted name, such as the
// test database URL.
package ciutil
