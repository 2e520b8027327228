package mobile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gosuda/tigress"
	"github.com/gosuda/tigress/ast"
)

type runResult struct {
	Result string `json:"result,omitempty"`
	Type   string `json:"type,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Run evaluates one program and returns a JSON result.
// With typed set the static pass runs first and its type is reported.
// Result format: {"result":"3","type":"int"} or {"error":"..."}
func Run(src string, typed bool) string {
	var result runResult
	if strings.TrimSpace(src) == "" {
		result.Error = "no program provided"
		b, _ := json.Marshal(result)
		return string(b)
	}

	if typed {
		t, err := tigress.Check(src)
		if err != nil {
			result.Error = fmt.Sprintf("typecheck: %v", err)
			b, _ := json.Marshal(result)
			return string(b)
		}
		result.Type = ast.TypeOf(t).String()
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
