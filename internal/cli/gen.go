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
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// GenResult is the output of gen.
type GenResult struct {
	Shape  string   `json:"shape"`
	Tokens []string `json:"tokens"`
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		shape string
		count int
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate random tokens",
		Long: `Generate random tokens of a built-in or configured shape.

Characters are drawn uniformly from the shape alphabet using crypto/rand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(rootOpts, cmd, shape, count)
		},
	}
	cmd.Flags().StringVarP(&shape, "shape", "s", "nano", "token shape")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of tokens")
	return cmd
}

func runGen(opts *RootOptions, cmd *cobra.Command, shape string, count int) error {
	if count < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("count must be positive, got %d", count))
	}
	sp, err := opts.config.Shape(shape)
	if err != nil {
		return WrapExitError(ExitCommandError, "gen", err)
	}

	res := GenResult{Shape: shape, Tokens: make([]string, 0, count)}
	for i := 0; i < count; i++ {
		tok, err := sp.Generate(opts.random)
		if err != nil {
			return WrapExitError(ExitCommandError, "gen", err)
		}
		res.Tokens = append(res.Tokens, tok)
	}
	opts.logger.Debug("tokens generated", "shape", shape, "size", sp.Size, "count", count)

	return opts.formatter(cmd).Emit(res, nil, func(w io.Writer) {
		for _, tok := range res.Tokens {
			fmt.Fprintln(w, tok)
		}
	})
}
