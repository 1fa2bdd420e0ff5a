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

package idx

import "fmt"

// Parse decodes the text form of a backing value and applies the backing's
// and the domain's rules.
func Parse[D any, R comparable](s string) (ID[D, R], error) {
	r, err := parseBacking[R](s)
	if err != nil {
		return ID[D, R]{}, err
	}
	if err := validate[D](r); err != nil {
		return ID[D, R]{}, err
	}
	return ID[D, R]{r: r}, nil
}

// MustParse is the constant constructor for package-level literals:
//
//	var Admin = idx.MustParse[User, token.Token[token.Alnum12]]("adminAAAAAAA")
//
// It panics on a malformed literal, which stops the program during package
// initialization. idxlint reports the same literals at build time.
func MustParse[D any, R comparable](lit string) ID[D, R] {
	id, err := Parse[D, R](lit)
	if err != nil {
		panic(fmt.Sprintf("idx: MustParse[%s](%q): %v", DomainName[D](), lit, err))
	}
	return id
}
