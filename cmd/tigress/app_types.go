package main

// outcome is everything one evaluation produced, ready for printing.
type outcome struct {
	name   string
	tree   []byte
	typ    string
	result string
	ran    bool
	err    error
}

type evalDoneMsg struct {
	src string
	out outcome
}

// transcriptLine is one line of the TUI transcript.
type transcriptLine struct {
	text string
	kind lineKind
}

type lineKind int

const (
	lineInput lineKind = iota
	lineResult
	lineError
	lineInfo
)
