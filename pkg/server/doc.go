// Package server hosts application components over HTTP. Each
// WebSocket client gets its own Session: a component instance rendered
// into an in-memory document whose mutations are recorded and streamed
// to the client as JSON patch frames. Client events come back over the
// same socket and are dispatched into the document, with one reactive
// flush per event.
//
// GET / serves the server-rendered HTML shell, GET /ws the patch
// stream, GET /metrics the Prometheus scrape endpoint.
package server
