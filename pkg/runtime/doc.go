// Package runtime ties the reactive and vdom layers together into a
// component model: declarative Options, live Component instances whose
// render watchers re-patch the tree when state changes, and component
// placeholder vnodes that let instances nest inside each other's trees.
//
// Writes batch until reactive.Flush is called; a host (the server
// session loop, a test) decides where flush boundaries fall.
package runtime
