// Package dom provides an in-memory document tree implementing the
// vdom.NodeOps backend contract, plus HTML serialization for
// server-side rendering and a Recorder that captures the mutation
// stream for transport to live clients.
package dom
