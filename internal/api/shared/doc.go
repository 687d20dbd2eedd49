// Package shared provides helpers common to all HTTP handlers: JSON
// encoding of responses, the error envelope, request decoding and
// validation, and access to the authenticated user stored in the request
// context by the auth middleware.
package shared
