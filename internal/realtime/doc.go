// Package realtime implements the authenticated event-broadcast layer.
//
// Connections authenticate with a credential token supplied in the
// websocket handshake. Each authenticated connection is auto-subscribed to
// exactly two rooms: the shared "tasks" room and the user's private
// "user:<id>" room. Task lifecycle events are fanned out to room members
// with at-most-once, fire-and-forget delivery; if a targeted user has no
// live connection the event is dropped. Room membership is process-local,
// in-memory state rebuilt from scratch on restart.
package realtime
