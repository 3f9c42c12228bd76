// This is an example remk build script that offers you a practical approach.
//
// Compile it once with `go build -o mk mk.go`, then just run ./mk – it
// rebuilds itself whenever mk.go changes.
package main

import (
	"git.fractalqb.de/fractalqb/remk"
)

var options = []remk.OptionSpec{
	{Long: "verbose", Short: 'v', Toggle: true},
	{Long: "mode", Short: 'm', HasValue: true},
	{Long: "trace", HasValue: true},
}

func main() {
	tracer := remk.NewDefaultTracer()
	remk.Main(remk.Script{
		Mode:    "debug",
		Tracer:  tracer,
		Options: options,
		Run: func(sc *remk.Scope, args *remk.Args) int {
			for _, opt := range args.Options {
				switch opt.Long {
				case "mode":
					sc.SetMode(opt.Value)
				case "trace":
					tracer.ParseLevelFlag(opt.Value)
				case "verbose":
					sc.PrefixOutput(true)
				}
			}
			return build(sc, args.Rest)
		},
	})
}

func build(sc *remk.Scope, targets []string) (status int) {
	status |= sc.In(&remk.Context{Name: "generate"}, func(sc *remk.Scope) {
		sc.Start("go", "generate", "./...")
	})

	status |= sc.In(&remk.Context{Name: "compile"}, func(sc *remk.Scope) {
		// both binaries build in parallel, leaving "compile" joins them
		sc.Start("go", "build", "-o", "dist/foo", "./cmd/foo")
		sc.Start("go", "build", "-o", "dist/bar", "./cmd/bar")
	})

	status |= sc.In(&remk.Context{Name: "test", Mode: "debug"}, func(sc *remk.Scope) {
		remk.Sh(sc, "go test ./...")
	})

	status |= sc.In(&remk.Context{Name: "dist", Mode: "release"}, func(sc *remk.Scope) {
		remk.Shb(sc, "tar czf dist/foo.tgz -C dist foo")
		remk.Shb(sc, "tar czf dist/bar.tgz -C dist bar")
	})
	return status
}
