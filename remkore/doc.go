// Package remkore implements the core of remk: the process runner with its
// fork-join groups, the stack of named build contexts, the argv parser and
// the self-recompiling bootstrap. The API is deliberately low-level, package
// remk adds the convenience surface build scripts are expected to use.
//
// All state that the classic single-header build libraries keep in globals –
// the active build context and the active build mode – lives in an explicit
// [Scope] value that is passed through the build script. A scope is driven by
// a single logical thread of control; parallelism comes from spawning child
// processes, never from concurrent access to the scope.
package remkore
