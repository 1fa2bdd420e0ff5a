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

// Package rule compiles identifier validation rules written in CEL.
//
// A rule is a boolean CEL expression over two variables:
//
//	id    string  the identifier's text form
//	size  int     its length in bytes
//
// Rules plug into domains as apis.Validator implementations:
//
//	var customerRule = rule.MustCompile(`id.startsWith("c-") && size <= 32`)
//
//	func (Customer) ValidateBacking(s string) error { return customerRule.Check(s) }
package rule
