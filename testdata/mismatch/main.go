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

// Command mismatch must not compile: identifiers of different domains are
// different types even with the same backing.
package main

import "dirpx.dev/idx"

type Customer struct{}

type Order struct{}

func main() {
	c := idx.New[Customer]("42")
	o := idx.New[Order]("42")
	println(c == o)
}
