// Package script provides Script, a port type holding an expr-lang
// expression compiled from attribute text.
//
// A script is either a plain expression, evaluated for its result:
//
//	battery > 20 && !docked
//
// or an assignment, whose result is written to a blackboard entry:
//
//	speed := speed * 2
//
// Identifiers resolve against the environment the script runs with; for
// RunOn that is a snapshot of the blackboard. Unknown identifiers are nil.
//
// Importing the package registers Script with btcore.DefaultConverters, so
// ports of type Script accept text.
package script

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/joeycumines/btport/internal/blackboard"
	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/safeany"
)

// ErrEmpty is returned when compiling blank text.
var ErrEmpty = errors.New("script: empty expression")

func init() {
	r := btcore.DefaultConverters()
	btcore.RegisterConverter(r, Compile)
	btcore.RegisterRenderer(r, Script.String)
}

// Script is a compiled expression. The zero Script is not runnable.
type Script struct {
	source  string
	target  string
	program *vm.Program
}

// Compile parses source. Programs are cached by their expression text.
func Compile(source string) (Script, error) {
	text := strings.TrimSpace(source)
	if text == "" {
		return Script{}, ErrEmpty
	}
	s := Script{source: text}
	exprText := text
	if lhs, rhs, ok := strings.Cut(text, ":="); ok && isIdentifier(strings.TrimSpace(lhs)) {
		s.target = strings.TrimSpace(lhs)
		exprText = strings.TrimSpace(rhs)
		if exprText == "" {
			return Script{}, fmt.Errorf("script: assignment to %q has no expression", s.target)
		}
	}
	program, ok := programs.get(exprText)
	if !ok {
		var err error
		program, err = expr.Compile(exprText, expr.AllowUndefinedVariables())
		if err != nil {
			return Script{}, err
		}
		programs.put(exprText, program)
	}
	s.program = program
	return s, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(source string) Script {
	s, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the source text, which compiles back to an equal Script.
func (s Script) String() string { return s.source }

// Target is the blackboard key an assignment writes, empty for expressions.
func (s Script) Target() string { return s.target }

// Valid reports whether s holds a compiled program.
func (s Script) Valid() bool { return s.program != nil }

// Eval runs the script against env and returns its result. Assignments are
// not applied.
func (s Script) Eval(env map[string]any) (any, error) {
	if s.program == nil {
		return nil, ErrEmpty
	}
	if env == nil {
		env = map[string]any{}
	}
	return expr.Run(s.program, env)
}

// EvalBool runs the script and requires a boolean result.
func (s Script) EvalBool(env map[string]any) (bool, error) {
	out, err := s.Eval(env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("script: %q returned %T, not bool", s.source, out)
	}
	return b, nil
}

// RunOn evaluates the script against a snapshot of bb. An assignment stores
// the result under its target, subject to the blackboard's type rules.
func (s Script) RunOn(bb *blackboard.Blackboard) (any, error) {
	out, err := s.Eval(bb.Snapshot())
	if err != nil {
		return nil, err
	}
	if s.target != "" {
		if out == nil {
			return nil, fmt.Errorf("script: %q evaluated to nil", s.source)
		}
		if err := bb.Set(s.target, safeany.Of(out)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
