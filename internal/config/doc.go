// Package config loads task API settings from defaults, an optional YAML file,
// a .env file and TASKAPI_* environment variables, and validates the result.
package config
