package remkore

import (
	"io"
	"os"
)

func ExamplePrefixWriter() {
	pw := NewPrefixWriterString(os.Stdout, "compile: ")
	io.WriteString(pw, "foo")
	io.WriteString(pw, "bar\n")
	io.WriteString(pw, "baz\nquux")
	// Output:
	// compile: foobar
	// compile: baz
	// compile: quux
}
