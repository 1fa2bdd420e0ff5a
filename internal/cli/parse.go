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

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dirpx.dev/idx/rule"
	"dirpx.dev/idx/token"
)

// Parse statuses.
const (
	StatusOK   = "ok"
	StatusRule = "rule"
)

// ParseResult is the verdict on one input of parse.
type ParseResult struct {
	Input  string `json:"input"`
	Status string `json:"status"` // ok, length, character or rule
	Error  string `json:"error,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		shape string
		rules []string
	)
	cmd := &cobra.Command{
		Use:   "parse <text>...",
		Short: "Check tokens against a shape",
		Long: `Check each input against a token shape and optional CEL rules.

Rules see the variables id (string) and size (int), e.g.
  --rule 'id.startsWith("A")'

Exits with status 1 when any input is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, cmd, shape, rules, args)
		},
	}
	cmd.Flags().StringVarP(&shape, "shape", "s", "nano", "token shape")
	cmd.Flags().StringArrayVar(&rules, "rule", nil, "CEL rule every input must satisfy (repeatable)")
	return cmd
}

func runParse(opts *RootOptions, cmd *cobra.Command, shape string, exprs []string, inputs []string) error {
	sp, err := opts.config.Shape(shape)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse", err)
	}
	rules, err := rule.CompileAll(exprs...)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse", err)
	}

	results := make([]ParseResult, 0, len(inputs))
	invalid := 0
	for _, in := range inputs {
		r := check(sp, rules, in)
		if r.Status != StatusOK {
			invalid++
			opts.logger.Debug("invalid input", "input", in, "status", r.Status, "error", r.Error)
		}
		results = append(results, r)
	}

	var failure error
	if invalid > 0 {
		failure = NewExitError(ExitFailure, fmt.Sprintf("%d of %d inputs invalid", invalid, len(inputs)))
	}
	return opts.formatter(cmd).Emit(results, failure, func(w io.Writer) {
		for _, r := range results {
			if r.Error == "" {
				fmt.Fprintf(w, "%-9s %s\n", r.Status, r.Input)
				continue
			}
			fmt.Fprintf(w, "%-9s %s: %s\n", r.Status, r.Input, r.Error)
		}
	})
}

func check(sp token.Spec, rules rule.Set, in string) ParseResult {
	if err := sp.Check(in); err != nil {
		status := "invalid"
		var fe *token.FormatError
		if errors.As(err, &fe) {
			status = fe.Kind.String()
		}
		return ParseResult{Input: in, Status: status, Error: err.Error()}
	}
	if err := rules.Check(in); err != nil {
		return ParseResult{Input: in, Status: StatusRule, Error: err.Error()}
	}
	return ParseResult{Input: in, Status: StatusOK}
}
