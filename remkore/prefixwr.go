package remkore

import (
	"bytes"
	"io"
)

// PrefixWriter writes the prefix in front of every line that passes through
// it. Spawned processes use it to mark their output with the name of the
// build context they run in.
type PrefixWriter struct {
	w      io.Writer
	prefix []byte
	inLine bool // not at start of line
}

func NewPrefixWriter(w io.Writer, prefix []byte) *PrefixWriter {
	return &PrefixWriter{w: w, prefix: prefix}
}

func NewPrefixWriterString(w io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{w: w, prefix: []byte(prefix)}
}

func (pw *PrefixWriter) Reset() { pw.inLine = false }

func (pw *PrefixWriter) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		if !pw.inLine {
			if _, err = pw.w.Write(pw.prefix); err != nil {
				return n, err
			}
			pw.inLine = true
		}
		var m int
		if nl := bytes.IndexByte(p, '\n'); nl < 0 {
			m, err = pw.w.Write(p)
			return n + m, err
		} else {
			m, err = pw.w.Write(p[:nl+1])
			n += m
			if err != nil {
				return n, err
			}
			pw.inLine = false
			p = p[nl+1:]
		}
	}
	return n, nil
}
