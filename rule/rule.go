/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package rule

import (
	"encoding"
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

var (
	// ErrRejected is wrapped by every Check failure.
	ErrRejected = errors.New("rule: identifier rejected")
	// ErrEmpty is returned when compiling a blank expression.
	ErrEmpty = errors.New("rule: empty expression")
	// ErrNotBool is returned when an expression does not evaluate to bool.
	ErrNotBool = errors.New("rule: expression is not boolean")
)

// Rule is a compiled CEL expression. It is safe for concurrent use.
type Rule struct {
	expr string
	prog cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("size", cel.IntType),
	)
}

// Compile parses and type-checks expr.
func Compile(expr string) (*Rule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrEmpty
	}
	env, err := newEnv()
	if err != nil {
		return nil, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("rule: parse %q: %w", expr, iss.Err())
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return nil, fmt.Errorf("rule: check %q: %w", expr, iss2.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q yields %v", ErrNotBool, expr, checked.OutputType())
	}
	prog, err := env.Program(checked)
	if err != nil {
		return nil, err
	}
	return &Rule{expr: expr, prog: prog}, nil
}

// MustCompile is like Compile but panics on error. Use it for
// package-level rules.
func MustCompile(expr string) *Rule {
	r, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the source expression.
func (r *Rule) String() string { return r.expr }

// Eval reports whether text satisfies the rule.
func (r *Rule) Eval(text string) (bool, error) {
	out, _, err := r.prog.Eval(map[string]any{
		"id":   text,
		"size": int64(len(text)),
	})
	if err != nil {
		return false, fmt.Errorf("rule: eval %q: %w", r.expr, err)
	}
	b, ok := out.Value().(bool)
	return ok && b, nil
}

// Check returns an error wrapping ErrRejected when text does not satisfy
// the rule, or the evaluation error.
func (r *Rule) Check(text string) error {
	ok, err := r.Eval(text)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q does not satisfy %s", ErrRejected, text, r.expr)
	}
	return nil
}

// CheckValue is Check on the text form of v: its MarshalText output,
// its String method or its default formatting, in that order.
func (r *Rule) CheckValue(v any) error {
	switch x := v.(type) {
	case string:
		return r.Check(x)
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return err
		}
		return r.Check(string(b))
	case fmt.Stringer:
		return r.Check(x.String())
	}
	return r.Check(fmt.Sprint(v))
}

// Set is a list of rules that must all hold.
type Set []*Rule

// CompileAll compiles every expression. Errors are joined.
func CompileAll(exprs ...string) (Set, error) {
	var (
		set  Set
		errs []error
	)
	for _, e := range exprs {
		r, err := Compile(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set = append(set, r)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return set, nil
}

// Check returns the first failing rule's error.
func (s Set) Check(text string) error {
	for _, r := range s {
		if err := r.Check(text); err != nil {
			return err
		}
	}
	return nil
}
