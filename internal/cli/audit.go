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
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dirpx.dev/idx/registry"
	"dirpx.dev/idx/strategy"
)

// Manifest lists the type keys a program or a set of programs claims.
// Claims without a key use the derived key.
//
//	namespace: idx/type/v1
//	claims:
//	  - name: example.com/shop.Product
//	  - name: example.com/shop.Order
//	    key: "0x30b822c4dd2ec8e1"
type Manifest struct {
	Namespace string           `yaml:"namespace"`
	Claims    []registry.Claim `yaml:"claims"`
}

// AuditClaim is a resolved claim in the audit output.
type AuditClaim struct {
	registry.Claim
	Derived bool `json:"derived"`
}

// AuditResult is the output of audit.
type AuditResult struct {
	Namespace string       `json:"namespace"`
	Claims    []AuditClaim `json:"claims"`
	Problems  []string     `json:"problems,omitempty"`
}

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <manifest.yaml>",
		Short: "Check a key manifest for collisions",
		Long: `Check a manifest of (name, key) claims as a whole. A key claimed by two
names is a collision; a name claimed with two keys is a conflict.

Exits with status 1 when any problem is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

// LoadManifest reads a manifest file. Unknown fields are errors.
func LoadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	var m Manifest
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

func runAudit(opts *RootOptions, cmd *cobra.Command, path string) error {
	m, err := LoadManifest(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "audit", err)
	}
	ns := opts.config.namespace(m.Namespace)

	res := AuditResult{Namespace: ns, Claims: make([]AuditClaim, len(m.Claims))}
	claims := make([]registry.Claim, len(m.Claims))
	for i, c := range m.Claims {
		ac := AuditClaim{Claim: c}
		if c.Key == 0 {
			ac.Key = strategy.DeriveKey(c.Name, ns)
			ac.Derived = true
		}
		res.Claims[i] = ac
		claims[i] = ac.Claim
	}

	if err := registry.Audit(claims); err != nil {
		res.Problems = problems(err)
	}
	opts.logger.Debug("manifest audited", "path", path, "claims", len(claims), "problems", len(res.Problems))

	var failure error
	if len(res.Problems) > 0 {
		failure = NewExitError(ExitFailure, fmt.Sprintf("%d problem(s) in %s", len(res.Problems), path))
	}
	return opts.formatter(cmd).Emit(res, failure, func(w io.Writer) {
		for _, c := range res.Claims {
			if c.Derived {
				fmt.Fprintf(w, "%s  %s (derived)\n", c.Key, c.Name)
				continue
			}
			fmt.Fprintf(w, "%s  %s\n", c.Key, c.Name)
		}
		if len(res.Problems) == 0 {
			fmt.Fprintf(w, "ok: %d claims, namespace %s\n", len(res.Claims), ns)
			return
		}
		for _, p := range res.Problems {
			fmt.Fprintf(w, "problem: %s\n", p)
		}
	})
}

// problems flattens a joined error into one message per problem.
func problems(err error) []string {
	var errs []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	} else {
		errs = []error{err}
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
