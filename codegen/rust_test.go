// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package codegen

import (
	"testing"

	"github.com/ferrum-lang/ferrum-compiler-sub000/ir"
)

func TestGenerateFnWithUseAndMod(t *testing.T) {
	tree := &ir.RustIR{
		Files: []*ir.RustIRFile{
			{
				Path: "main.rs",
				Mods: []string{"util"},
				Uses: []*ir.RustIRUse{
					{
						Path: &ir.RustIRUsePath{
							Name: "crate",
							Next: &ir.RustIRUsePath{
								Name: "util",
								Next: &ir.RustIRUsePath{Name: "greet"},
							},
						},
					},
				},
				Decls: []ir.RustIRDecl{
					&ir.RustIRFnDecl{
						Pub:  true,
						Name: "main",
						Body: []ir.RustIRStmt{
							&ir.RustIRExprStmt{
								Expr: &ir.RustIRCallExpr{
									Callee: &ir.RustIRIdentExpr{Name: "greet"},
								},
							},
						},
					},
				},
			},
		},
	}

	code, err := GenerateCode(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "mod util;\n" +
		"\n" +
		"use crate::util::greet;\n" +
		"\n" +
		"pub fn main() {\n" +
		"    greet();\n" +
		"}\n"

	if code.Files[0].Content != want {
		t.Errorf("got:\n%s\nwant:\n%s", code.Files[0].Content, want)
	}
}

func TestGenerateUseManyBranch(t *testing.T) {
	g := &RustCodeGen{}

	out, err := g.genUsePath(&ir.RustIRUsePath{
		Name: "crate",
		Next: &ir.RustIRUsePath{
			Name: "util",
			Many: []*ir.RustIRUsePath{
				{Name: "greet"},
				{Name: "farewell"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "crate::util::{greet, farewell}" {
		t.Errorf("got %q", out)
	}
}

func TestGenerateLabelledLoopExpr(t *testing.T) {
	tree := &ir.RustIR{
		Files: []*ir.RustIRFile{
			{
				Path: "main.rs",
				Decls: []ir.RustIRDecl{
					&ir.RustIRFnDecl{
						Name: "f",
						Body: []ir.RustIRStmt{
							&ir.RustIRLetStmt{
								Name: "x",
								Value: &ir.RustIRLoopExpr{
									Label: "label_3_outer",
									Stmts: []ir.RustIRStmt{
										&ir.RustIRBreakStmt{
											Label: "label_3_outer",
											Expr:  &ir.RustIRNumberLiteralExpr{Literal: "1"},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	code, err := GenerateCode(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "fn f() {\n" +
		"    let x = 'label_3_outer: loop {\n" +
		"        break 'label_3_outer 1;\n" +
		"    };\n" +
		"}\n"

	if code.Files[0].Content != want {
		t.Errorf("got:\n%s\nwant:\n%s", code.Files[0].Content, want)
	}
}

func TestGenerateIfExprElseChain(t *testing.T) {
	g := &RustCodeGen{indent: 1}

	out, err := g.genIfExpr(&ir.RustIRIfExpr{
		Condition: &ir.RustIRIdentExpr{Name: "a"},
		Then: []ir.RustIRStmt{
			&ir.RustIRImplicitReturnStmt{Expr: &ir.RustIRNumberLiteralExpr{Literal: "1"}},
		},
		ElseIfs: []*ir.RustIRElseIf{
			{
				Condition: &ir.RustIRIdentExpr{Name: "b"},
				Then: []ir.RustIRStmt{
					&ir.RustIRImplicitReturnStmt{Expr: &ir.RustIRNumberLiteralExpr{Literal: "2"}},
				},
			},
		},
		Else: []ir.RustIRStmt{
			&ir.RustIRImplicitReturnStmt{Expr: &ir.RustIRNumberLiteralExpr{Literal: "3"}},
		},
		HasElse: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "if a {\n" +
		"        1\n" +
		"    } else if b {\n" +
		"        2\n" +
		"    } else {\n" +
		"        3\n" +
		"    }"

	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}
