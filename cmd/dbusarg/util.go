package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danderson/dbusarg/wire"
	"github.com/kr/pretty"
)

type indenter struct {
	prefix     string
	indentNext bool
}

func (i *indenter) f(msg string, args ...any) {
	fmt.Fprintf(i, msg+"\n", args...)
}

func (i *indenter) Write(bs []byte) (int, error) {
	ret := 0
	for len(bs) > 0 {
		if i.indentNext {
			i.indentNext = false
			_, err := io.WriteString(os.Stdout, i.prefix)
			if err != nil {
				return ret, err
			}
		}

		wr := bs
		idx := bytes.IndexByte(bs, '\n')
		if idx >= 0 {
			i.indentNext = true
			wr, bs = bs[:idx+1], bs[idx+1:]
		} else {
			bs = nil
		}

		n, err := os.Stdout.Write(wr)
		ret += n
		if err != nil {
			return ret, err
		}
	}
	return ret, nil
}

func (i *indenter) indent(n int) {
	i.prefix = strings.Repeat("  ", n)
}

// printArgs prints the signature of each encoded argument and, with
// --tree, its wire tree.
func printArgs(args []wire.Arg) {
	var out indenter
	if len(args) == 0 {
		out.f("(no arguments)")
		return
	}
	for i, a := range args {
		out.indent(0)
		if a == nil {
			out.f("arg %d: (no value)", i)
			continue
		}
		out.f("arg %d: %q", i, a.Signature())
		if globalArgs.Tree {
			out.indent(1)
			out.f("%# v", pretty.Formatter(a))
		}
	}
}

func growTo(s []string, n int) []string {
	for len(s) < n {
		s = append(s, "")
	}
	return s
}
