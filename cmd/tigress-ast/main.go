package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/gosuda/tigress"
	"github.com/gosuda/tigress/ast"
)

func main() {
	format := flag.Bool("fmt", false, "print the program back as source instead of YAML")
	typed := flag.Bool("typed", false, "run the static type pass and print the program's type")
	flag.Parse()

	if err := run(os.Stdout, flag.Args(), *format, *typed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(w io.Writer, paths []string, format, typed bool) error {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	for _, path := range paths {
		src, err := readSource(path)
		if err != nil {
			return err
		}
		prog, err := tigress.Parse(src)
		if err != nil {
			return errors.Wrap(err, path)
		}
		if len(paths) > 1 {
			fmt.Fprintf(w, "# %s\n", path)
		}
		if typed {
			t, err := tigress.Check(src)
			if err != nil {
				return errors.Wrap(err, path)
			}
			fmt.Fprintf(w, "# type: %s\n", ast.TypeOf(t))
		}
		if format {
			fmt.Fprintln(w, ast.Format(prog))
			continue
		}
		out, err := ast.MarshalYAML(prog)
		if err != nil {
			return errors.Wrap(err, path)
		}
		w.Write(out)
	}
	return nil
}

func readSource(path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(b), nil
}
