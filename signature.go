package main

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/token"
	"regexp"
	"strings"
)

// maxSignatureWidth is the width beyond which parameters are wrapped one
// per line.
const maxSignatureWidth = 80

type signature struct {
	flat    string
	wrapped string
	params  []string
}

// text returns the flat form, or the wrapped form when the flat one is too
// wide.
func (s signature) text() string {
	if len(s.flat) > maxSignatureWidth && s.wrapped != "" {
		return s.wrapped
	}
	return s.flat
}

func funcSignature(fset *token.FileSet, decl *ast.FuncDecl, removePrefix bool) signature {
	if decl == nil || decl.Type == nil {
		return signature{}
	}
	recv := ""
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		fields := fieldStrings(fset, decl.Recv, removePrefix)
		if len(fields) > 0 {
			recv = fields[0]
		}
	}
	return buildSignature(fset, recv, decl.Name.Name, decl.Type, removePrefix)
}

// buildSignature renders "func (recv) Name[T any](params) results". Field
// lists are printed by hand: go/printer cannot format bare fields.
func buildSignature(fset *token.FileSet, recv, name string, ft *ast.FuncType, removePrefix bool) signature {
	var prefix strings.Builder
	prefix.WriteString("func ")
	if recv != "" {
		prefix.WriteString("(" + recv + ") ")
	}
	prefix.WriteString(name)
	if ft.TypeParams != nil && len(ft.TypeParams.List) > 0 {
		prefix.WriteString("[" + strings.Join(fieldStrings(fset, ft.TypeParams, removePrefix), ", ") + "]")
	}

	params := fieldStrings(fset, ft.Params, removePrefix)
	results := resultString(fset, ft.Results, removePrefix)

	flat := prefix.String() + "(" + strings.Join(params, ", ") + ")" + results

	var wrapped string
	if len(params) > 0 {
		var b strings.Builder
		b.WriteString(prefix.String())
		b.WriteString("(\n")
		for _, p := range params {
			b.WriteString("\t" + p + ",\n")
		}
		b.WriteString(")" + results)
		wrapped = b.String()
	}

	return signature{
		flat:    flat,
		wrapped: wrapped,
		params:  paramNames(ft.Params),
	}
}

func resultString(fset *token.FileSet, results *ast.FieldList, removePrefix bool) string {
	if results == nil || len(results.List) == 0 {
		return ""
	}
	fields := fieldStrings(fset, results, removePrefix)
	if len(results.List) == 1 && len(results.List[0].Names) == 0 {
		return " " + fields[0]
	}
	return " (" + strings.Join(fields, ", ") + ")"
}

func fieldStrings(fset *token.FileSet, list *ast.FieldList, removePrefix bool) []string {
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list.List))
	for _, field := range list.List {
		typ := exprString(fset, field.Type)
		if removePrefix {
			typ = stripQualifiers(typ)
		}
		if len(field.Names) == 0 {
			out = append(out, typ)
			continue
		}
		names := make([]string, 0, len(field.Names))
		for _, n := range field.Names {
			names = append(names, n.Name)
		}
		out = append(out, strings.Join(names, ", ")+" "+typ)
	}
	return out
}

func paramNames(list *ast.FieldList) []string {
	if list == nil {
		return nil
	}
	var names []string
	for _, field := range list.List {
		for _, n := range field.Names {
			if n.Name == "_" {
				continue
			}
			names = append(names, n.Name)
		}
	}
	return names
}

func exprString(fset *token.FileSet, expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, expr); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

var reQualifier = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\.`)

// stripQualifiers turns "context.Context" into "Context" and
// "map[string]*bytes.Buffer" into "map[string]*Buffer".
func stripQualifiers(typ string) string {
	return reQualifier.ReplaceAllString(typ, "")
}
