//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/gosuda/tigress"
	"github.com/gosuda/tigress/ast"
)

type runResult struct {
	Result string `json:"result,omitempty"`
	Source string `json:"source,omitempty"`
	Tree   string `json:"tree,omitempty"`
	Error  string `json:"error,omitempty"`
}

type runOptions struct {
	Tree   bool `json:"tree"`
	Format bool `json:"format"`
}

func runProgram(this js.Value, args []js.Value) any {
	var result runResult
	if len(args) < 1 {
		result.Error = "tigressRun requires the program source"
		b, _ := json.Marshal(result)
		return string(b)
	}
	src := args[0].String()

	var opts runOptions
	if len(args) > 1 && args[1].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[1].String()), &opts); err != nil {
			result.Error = fmt.Sprintf("invalid options json: %v", err)
			b, _ := json.Marshal(result)
			return string(b)
		}
	}

	if opts.Tree || opts.Format {
		prog, err := tigress.Parse(src)
		if err != nil {
			result.Error = fmt.Sprintf("parse: %v", err)
			b, _ := json.Marshal(result)
			return string(b)
		}
		if opts.Format {
			result.Source = ast.Format(prog)
		}
		if opts.Tree {
			tree, err := ast.MarshalYAML(prog)
			if err != nil {
				result.Error = fmt.Sprintf("tree: %v", err)
				b, _ := json.Marshal(result)
				return string(b)
			}
			result.Tree = string(tree)
		}
	}

	_, text, err := tigress.Eval(src)
	if err != nil {
		result.Error = fmt.Sprintf("runtime: %v", err)
	} else {
		result.Result = text
	}

	b, _ := json.Marshal(result)
	return string(b)
}

func main() {
	js.Global().Set("tigressRun", js.FuncOf(runProgram))
	select {}
}
