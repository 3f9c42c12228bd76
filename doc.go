// Package remk helps to write small build scripts in Go that want
// process-level parallelism without a full build-graph engine. A build script
// describes its work as nested, named build contexts, runs external commands
// synchronously or as part of a fork-join group and – once compiled to an
// executable – rebuilds and re-executes itself when its own source changed.
//
// remk is just a Go library. A build script is a Go executable; "mk.go" is
// the recommended file name. Compile it once, e.g.
//
//	module$ go build -o mk mk.go
//
// and from then on just run ./mk – whenever mk.go is newer than mk, the
// script recompiles itself in place and re-executes with the original
// arguments.
//
// A minimal script:
//
//	func main() {
//		remk.Main(remk.Script{
//			Options: []remk.OptionSpec{
//				{Long: "mode", Short: 'm', HasValue: true},
//			},
//			Run: func(sc *remk.Scope, args *remk.Args) int {
//				return sc.In(&remk.Context{Name: "compile"}, func(sc *remk.Scope) {
//					sc.Start("go", "build", "./cmd/foo")
//					sc.Start("go", "build", "./cmd/bar")
//				})
//			},
//		})
//	}
//
// Leaving a context joins everything spawned inside it, so the two builds
// above run in parallel and "compile" does not finish before both are done.
package remk
