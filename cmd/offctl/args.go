package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/kbukum/offclient/validation"
)

// args parses the flags and positional arguments of one command.
type args struct {
	fs    *flag.FlagSet
	names    []string
	required int
	variadic bool
	v        *validation.Validator
	pos      map[string]string
}

// newArgs declares the positional arguments of a command. The first
// required names must be present.
func newArgs(name string, required int, names ...string) *args {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return &args{fs: fs, names: names, required: required, v: validation.New(), pos: map[string]string{}}
}

// repeated allows any number of trailing arguments.
func (a *args) repeated() *args {
	a.variadic = true
	return a
}

// parse reads raw. Flags must precede positional arguments.
func (a *args) parse(raw []string) error {
	if err := a.fs.Parse(raw); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	got := a.fs.Args()
	for i, name := range a.names {
		if i < len(got) {
			a.pos[name] = got[i]
		}
		if i < a.required {
			a.v.Required(name, a.pos[name])
		}
	}
	if !a.variadic {
		a.v.Custom(len(got) <= len(a.names), "args", fmt.Sprintf("at most %d allowed", len(a.names)))
	}
	return a.check()
}

// check returns the errors collected so far.
func (a *args) check() error {
	if err := a.v.Err(); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

func (a *args) get(name string) string {
	return a.pos[name]
}

// number converts a positional argument, recording an error when it is not a
// positive integer.
func (a *args) number(name string) int {
	s := a.pos[name]
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		a.v.AddError(name, "must be an integer")
		return 0
	}
	a.v.Min(name, n, 1)
	return n
}

// numbers converts every positional argument from index from on.
func (a *args) numbers(from int) []int {
	var out []int
	got := a.fs.Args()
	if from > len(got) {
		return nil
	}
	for i, s := range got[from:] {
		n, err := strconv.Atoi(s)
		if err != nil {
			a.v.AddError(fmt.Sprintf("args[%d]", from+i), "must be an integer")
			continue
		}
		out = append(out, n)
	}
	return out
}
