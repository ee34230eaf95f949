// Package server exposes a binding module over HTTP so that out-of-process
// hosts can call its functions with JSON arguments.
//
// Routes, for a module named m:
//
//	GET  /v1/modules/m              describe the module's functions
//	POST /v1/modules/m/{function}   call one function: {"args": [...]}
//	POST /v1/modules/m:batch        call several: {"calls": [{"function": ..., "args": [...]}]}
//	GET  /health                    liveness and runtime memory snapshot
//	GET  /metrics                   Prometheus exposition
package server
