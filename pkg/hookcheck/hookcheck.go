// Package hookcheck implements a static analyzer enforcing the hook
// calling rules: inside a component function, every Use* hook must be
// reached on every render, in the same order. A hook call under an if,
// for, switch or select, or inside a nested function literal, can
// change the slot sequence between renders and corrupts component
// state at runtime.
package hookcheck

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "hookcheck",
	Doc:  "check that hooks are called unconditionally in component functions",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			switch fn := n.(type) {
			case *ast.FuncDecl:
				if isComponentFunc(fn.Type) {
					checkBody(pass, fn.Body)
					return false
				}
			case *ast.FuncLit:
				if isComponentFunc(fn.Type) {
					checkBody(pass, fn.Body)
					return false
				}
			}
			return true
		})
	}
	return nil, nil
}

// isComponentFunc reports whether the first parameter is a *Ctx. The
// check is shape-based so it works on aliased imports and in tests that
// stub the runtime types.
func isComponentFunc(ft *ast.FuncType) bool {
	if ft.Params == nil || len(ft.Params.List) == 0 {
		return false
	}
	star, ok := ft.Params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	switch t := star.X.(type) {
	case *ast.Ident:
		return t.Name == "Ctx"
	case *ast.SelectorExpr:
		return t.Sel.Name == "Ctx"
	}
	return false
}

// checkBody walks a component body flagging hook calls that are not on
// the unconditional top-level path.
func checkBody(pass *analysis.Pass, body *ast.BlockStmt) {
	if body == nil {
		return
	}
	walk(pass, body)
}

// walk visits the unconditional top-level path; any guarded region is
// handed to walkBranch, which flags every hook call inside it.
func walk(pass *analysis.Pass, n ast.Node) {
	ast.Inspect(n, func(node ast.Node) bool {
		switch s := node.(type) {
		case *ast.IfStmt:
			walkBranch(pass, s.Body, "if")
			if s.Else != nil {
				walkBranch(pass, s.Else, "if")
			}
			if s.Init != nil {
				walk(pass, s.Init)
			}
			walk(pass, s.Cond)
			return false
		case *ast.ForStmt:
			walkBranch(pass, s.Body, "for")
			return false
		case *ast.RangeStmt:
			walkBranch(pass, s.Body, "range")
			return false
		case *ast.SwitchStmt:
			walkBranch(pass, s.Body, "switch")
			return false
		case *ast.TypeSwitchStmt:
			walkBranch(pass, s.Body, "switch")
			return false
		case *ast.SelectStmt:
			walkBranch(pass, s.Body, "select")
			return false
		case *ast.FuncLit:
			// Hooks must not run from callbacks either; the slot
			// cursor is only valid during the render call.
			walkBranch(pass, s.Body, "function literal")
			return false
		}
		return true
	})
}

func walkBranch(pass *analysis.Pass, n ast.Node, guard string) {
	ast.Inspect(n, func(node ast.Node) bool {
		if call, ok := node.(*ast.CallExpr); ok {
			if name, ok := hookName(call); ok {
				pass.Reportf(call.Pos(), "hook %s called inside %s; hooks must run unconditionally on every render", name, guard)
			}
		}
		return true
	})
}

// hookName extracts the called identifier when it follows the Use*
// hook naming convention.
func hookName(call *ast.CallExpr) (string, bool) {
	var name string
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		name = fn.Name
	case *ast.SelectorExpr:
		name = fn.Sel.Name
	case *ast.IndexExpr:
		// Explicit type argument, e.g. UseState[int](ctx, 0).
		switch x := fn.X.(type) {
		case *ast.Ident:
			name = x.Name
		case *ast.SelectorExpr:
			name = x.Sel.Name
		}
	case *ast.IndexListExpr:
		switch x := fn.X.(type) {
		case *ast.Ident:
			name = x.Name
		case *ast.SelectorExpr:
			name = x.Sel.Name
		}
	}
	if len(name) > 3 && strings.HasPrefix(name, "Use") && name[3] >= 'A' && name[3] <= 'Z' {
		return name, true
	}
	return "", false
}
