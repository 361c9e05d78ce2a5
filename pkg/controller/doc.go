// Package controller contains HTTP middlewares and helper handlers used by the
// server of the schedule command.
//
// Provided middlewares:
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers under /debug/pprof/.
//   - RequestID: Returns the request ID WithLogger stored in the context.
package controller
