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

// Package lint defines an analyzer that checks token literals at build time.
//
// token.MustParse and idx.MustParse panic during package initialization when
// a literal does not fit its shape. The analyzer reports the same literals
// before the program runs:
//
//	var Admin = token.MustParse[token.Alnum12]("admin") // invalid length: want 12, got 5
//
// Shapes are resolved through facts: every named type whose Size and
// Alphabet methods return constants gets a ShapeFact, so shapes declared in
// other packages are checked too.
package lint

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"dirpx.dev/idx/token"
)

const (
	idxPath   = "dirpx.dev/idx"
	tokenPath = "dirpx.dev/idx/token"
)

// Analyzer reports malformed and non-constant MustParse literals.
var Analyzer = &analysis.Analyzer{
	Name:      "idxlint",
	Doc:       "check token literals passed to token.MustParse and idx.MustParse",
	Requires:  []*analysis.Analyzer{inspect.Analyzer},
	FactTypes: []analysis.Fact{new(ShapeFact)},
	Run:       run,
}

// ShapeFact records the constant shape of a token shape type.
type ShapeFact struct {
	Size     int
	Alphabet string
}

func (*ShapeFact) AFact() {}

func (f *ShapeFact) String() string {
	return fmt.Sprintf("size=%d alphabet=%s", f.Size, f.Alphabet)
}

func run(pass *analysis.Pass) (any, error) {
	exportShapes(pass)

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		checkCall(pass, n.(*ast.CallExpr))
	})
	return nil, nil
}

// exportShapes attaches a ShapeFact to every type of the package whose Size
// and Alphabet methods are single constant returns.
func exportShapes(pass *analysis.Pass) {
	type partial struct {
		size, alpha constant.Value
		at          ast.Node
	}
	found := map[*types.TypeName]*partial{}
	var order []*types.TypeName

	for _, f := range pass.Files {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || fd.Body == nil {
				continue
			}
			name := fd.Name.Name
			if name != "Size" && name != "Alphabet" {
				continue
			}
			fn, ok := pass.TypesInfo.Defs[fd.Name].(*types.Func)
			if !ok {
				continue
			}
			tn := receiverType(fn)
			if tn == nil {
				continue
			}
			v := constantReturn(pass, fd)
			if v == nil {
				continue
			}
			p := found[tn]
			if p == nil {
				p = &partial{}
				found[tn] = p
				order = append(order, tn)
			}
			switch {
			case name == "Size" && v.Kind() == constant.Int:
				p.size, p.at = v, fd
			case name == "Alphabet" && v.Kind() == constant.String:
				p.alpha = v
			}
		}
	}

	for _, tn := range order {
		p := found[tn]
		if p.size == nil || p.alpha == nil {
			continue
		}
		n, exact := constant.Int64Val(p.size)
		if !exact {
			continue
		}
		sp := token.Spec{Size: int(n), Alphabet: constant.StringVal(p.alpha)}
		if err := sp.Validate(); err != nil {
			pass.Reportf(p.at.Pos(), "%s is not a valid token shape: %v", tn.Name(), err)
			continue
		}
		pass.ExportObjectFact(tn, &ShapeFact{Size: sp.Size, Alphabet: sp.Alphabet})
	}
}

func receiverType(fn *types.Func) *types.TypeName {
	recv := fn.Type().(*types.Signature).Recv()
	if recv == nil {
		return nil
	}
	t := recv.Type()
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return nil
	}
	return named.Obj()
}

func constantReturn(pass *analysis.Pass, fd *ast.FuncDecl) constant.Value {
	if len(fd.Body.List) != 1 {
		return nil
	}
	ret, ok := fd.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return nil
	}
	return pass.TypesInfo.Types[ret.Results[0]].Value
}

func checkCall(pass *analysis.Pass, call *ast.CallExpr) {
	id := calleeIdent(call.Fun)
	if id == nil {
		return
	}
	fn, ok := pass.TypesInfo.Uses[id].(*types.Func)
	if !ok || fn.Name() != "MustParse" || fn.Pkg() == nil {
		return
	}
	inst, ok := pass.TypesInfo.Instances[id]
	if !ok || len(call.Args) != 1 {
		return
	}

	var shape types.Type
	switch fn.Pkg().Path() {
	case tokenPath:
		shape = inst.TypeArgs.At(0)
	case idxPath:
		if inst.TypeArgs.Len() < 2 {
			return
		}
		shape = tokenShape(inst.TypeArgs.At(1))
	}
	if shape == nil {
		return
	}

	named, ok := shape.(*types.Named)
	if !ok {
		return
	}
	var fact ShapeFact
	if !pass.ImportObjectFact(named.Obj(), &fact) {
		return
	}

	arg := call.Args[0]
	tv := pass.TypesInfo.Types[arg]
	if tv.Value == nil || tv.Value.Kind() != constant.String {
		pass.Reportf(arg.Pos(), "argument to MustParse is not a constant")
		return
	}
	lit := constant.StringVal(tv.Value)
	sp := token.Spec{Size: fact.Size, Alphabet: fact.Alphabet}
	if err := sp.Check(lit); err != nil {
		qual := func(p *types.Package) string { return p.Name() }
		pass.Reportf(arg.Pos(), "invalid %s literal %q: %v", types.TypeString(named, qual), lit, err)
	}
}

// calleeIdent returns the identifier naming the called function, looking
// through parentheses, package selectors and explicit instantiation.
func calleeIdent(fun ast.Expr) *ast.Ident {
	fun = ast.Unparen(fun)
	switch f := fun.(type) {
	case *ast.IndexExpr:
		fun = f.X
	case *ast.IndexListExpr:
		fun = f.X
	}
	switch f := ast.Unparen(fun).(type) {
	case *ast.Ident:
		return f
	case *ast.SelectorExpr:
		return f.Sel
	}
	return nil
}

// tokenShape returns S when t is token.Token[S].
func tokenShape(t types.Type) types.Type {
	named, ok := t.(*types.Named)
	if !ok || named.TypeArgs().Len() != 1 {
		return nil
	}
	obj := named.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != tokenPath || obj.Name() != "Token" {
		return nil
	}
	return named.TypeArgs().At(0)
}
