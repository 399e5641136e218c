// Package core defines the shared data model of the Agriguru session core:
// the ephemeral tool-call request/response pair exchanged with the live
// session, the persistent farm and social records stored per owner, and the
// collection names under which they live.
//
// Types in this package are plain data. Behaviour lives in the packages that
// operate on them (tools, dispatch, notify).
package core
