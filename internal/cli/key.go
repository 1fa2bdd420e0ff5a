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

	"dirpx.dev/idx/apis"
	"dirpx.dev/idx/strategy"
)

// KeyResult is one derived key.
type KeyResult struct {
	Name string   `json:"name"`
	Key  apis.Key `json:"key"`
}

// NewKeyCommand creates the key command.
func NewKeyCommand(rootOpts *RootOptions) *cobra.Command {
	var namespace string
	cmd := &cobra.Command{
		Use:   "key <qualified-name>...",
		Short: "Derive stable type keys",
		Long: `Derive the stable key of each qualified type name, e.g.
"example.com/shop.Product", exactly as the library derives it at run time.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKey(rootOpts, cmd, namespace, args)
		},
	}
	cmd.Flags().StringVar(&namespace, "namespace", "", "derivation namespace (default from config, else idx/type/v1)")
	return cmd
}

func runKey(opts *RootOptions, cmd *cobra.Command, namespace string, names []string) error {
	ns := opts.config.namespace(namespace)
	opts.logger.Debug("deriving keys", "namespace", ns, "count", len(names))

	results := make([]KeyResult, len(names))
	for i, name := range names {
		results[i] = KeyResult{Name: name, Key: strategy.DeriveKey(name, ns)}
	}
	return opts.formatter(cmd).Emit(results, nil, func(w io.Writer) {
		for _, r := range results {
			fmt.Fprintf(w, "%s  %s\n", r.Key, r.Name)
		}
	})
}
