// Package api handles incoming HTTP requests, request validation and
// response formatting for the task endpoints. It acts as an adapter between
// HTTP clients and service.TaskService, translating HTTP concerns to task
// operations and service errors back to status codes.
package api
