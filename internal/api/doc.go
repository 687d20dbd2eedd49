// Package api contains the HTTP handlers for the REST surface: account
// registration and login, task CRUD with filtering and pagination, and
// the dashboard aggregate. Handlers decode and validate requests, call
// the service layer, and translate service errors into status codes and
// the shared error envelope.
package api
