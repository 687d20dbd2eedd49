// Package service contains the application's use cases. Services sit
// between the HTTP handlers and the stores: they enforce business rules
// (ownership, assignee existence, pagination defaults) and publish
// realtime events after successful mutations. Handlers translate service
// errors to HTTP status codes; services never see the transport.
package service
