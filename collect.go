package main

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/doc"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/agentflare-ai/go-lazydocs/docstring"
)

type memberKind string

const (
	kindModule    memberKind = "module"
	kindClass     memberKind = "class"
	kindEnum      memberKind = "enum"
	kindException memberKind = "exception"
	kindFunction  memberKind = "function"
	kindMethod    memberKind = "method"
	kindEnumValue memberKind = "enum-value"
	kindProperty  memberKind = "property"
	kindVariable  memberKind = "variable"
)

func (k memberKind) isType() bool {
	return k == kindClass || k == kindEnum || k == kindException
}

// member describes one documented unit. Only Docstring is ever handed to
// the transpiler; everything else shapes the page around it.
type member struct {
	Kind          memberKind
	Name          string
	QualifiedName string
	Module        string
	Summary       string
	Docstring     string
	DeclaredAt    *token.Position

	// Functions and methods.
	Signature        string
	WrappedSignature string
	Params           []string

	// Enum values.
	Value string

	// Modules.
	Variables []*member
	Functions []*member
	Types     []*member

	// Types.
	Constructors []*member
	Values       []*member
	Properties   []*member
	Methods      []*member
}

func (m *member) location() string {
	if m.DeclaredAt == nil || !m.DeclaredAt.IsValid() {
		return ""
	}
	return fmt.Sprintf("%s:%d", m.DeclaredAt.Filename, m.DeclaredAt.Line)
}

// walk calls fn for m and every member below it, parents first.
func (m *member) walk(fn func(*member)) {
	fn(m)
	for _, group := range [][]*member{m.Variables, m.Functions, m.Types, m.Constructors, m.Values, m.Properties, m.Methods} {
		for _, child := range group {
			child.walk(fn)
		}
	}
}

type collectOptions struct {
	ignoreMarker        string
	removePackagePrefix bool
}

// collector turns one loaded package into member descriptors.
type collector struct {
	opts   collectOptions
	module string
	pkg    *packages.Package
	doc    *doc.Package
	fset   *token.FileSet
}

func newCollector(pkg *packages.Package, module string, opts collectOptions) (*collector, error) {
	docPkg, err := doc.NewFromFiles(pkg.Fset, pkg.Syntax, pkg.PkgPath, doc.PreserveAST)
	if err != nil {
		return nil, fmt.Errorf("read docs of %s: %w", pkg.PkgPath, err)
	}
	return &collector{
		opts:   opts,
		module: module,
		pkg:    pkg,
		doc:    docPkg,
		fset:   pkg.Fset,
	}, nil
}

func (c *collector) ignored(text string) bool {
	return docstring.HasIgnoreMarker(text, c.opts.ignoreMarker)
}

func (c *collector) position(pos token.Pos) *token.Position {
	if !pos.IsValid() {
		return nil
	}
	p := c.fset.Position(pos)
	return &p
}

func (c *collector) newMember(kind memberKind, name, qualified, text string, pos token.Pos) *member {
	text = docstring.Clean(text)
	return &member{
		Kind:          kind,
		Name:          name,
		QualifiedName: qualified,
		Module:        c.module,
		Summary:       docstring.Summary(text),
		Docstring:     text,
		DeclaredAt:    c.position(pos),
	}
}

// collectModule returns the module descriptor, or nil when the package
// documentation carries the ignore marker.
func (c *collector) collectModule() *member {
	if c.ignored(c.doc.Doc) {
		return nil
	}
	var pos token.Pos
	for _, f := range c.pkg.Syntax {
		if f.Doc != nil {
			pos = f.Package
			break
		}
	}
	if !pos.IsValid() && len(c.pkg.Syntax) > 0 {
		pos = c.pkg.Syntax[0].Package
	}
	mod := c.newMember(kindModule, c.module, c.module, c.doc.Doc, pos)

	mod.Variables = append(mod.Variables, c.collectValues(c.doc.Consts)...)
	mod.Variables = append(mod.Variables, c.collectValues(c.doc.Vars)...)
	// go/doc files typed variables under their type.
	for _, t := range c.doc.Types {
		if !c.ignored(t.Doc) {
			mod.Variables = append(mod.Variables, c.collectValues(t.Vars)...)
		}
	}
	sortByLine(mod.Variables)

	for _, f := range c.doc.Funcs {
		if m := c.collectFunc(f, ""); m != nil {
			mod.Functions = append(mod.Functions, m)
		}
	}
	sortByLine(mod.Functions)

	for _, t := range c.doc.Types {
		if m := c.collectType(t); m != nil {
			mod.Types = append(mod.Types, m)
		}
	}
	return mod
}

func (c *collector) collectValues(values []*doc.Value) []*member {
	var out []*member
	for _, v := range values {
		if c.ignored(v.Doc) {
			continue
		}
		for _, spec := range v.Decl.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			text := specDoc(vs)
			if text == "" {
				text = v.Doc
			}
			if c.ignored(text) {
				continue
			}
			for _, ident := range vs.Names {
				if !ident.IsExported() {
					continue
				}
				out = append(out, c.newMember(kindVariable, ident.Name, ident.Name, text, ident.Pos()))
			}
		}
	}
	return out
}

func (c *collector) typeKind(t *doc.Type) memberKind {
	if len(t.Consts) > 0 {
		return kindEnum
	}
	if c.implementsError(t.Name) {
		return kindException
	}
	return kindClass
}

var errorInterface = types.Universe.Lookup("error").Type().Underlying().(*types.Interface)

func (c *collector) implementsError(name string) bool {
	if c.pkg.Types == nil {
		return false
	}
	tn, ok := c.pkg.Types.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return false
	}
	typ := tn.Type()
	if types.IsInterface(typ) {
		return false
	}
	return types.Implements(typ, errorInterface) || types.Implements(types.NewPointer(typ), errorInterface)
}

func (c *collector) constValue(name string) string {
	if c.pkg.Types == nil {
		return ""
	}
	cst, ok := c.pkg.Types.Scope().Lookup(name).(*types.Const)
	if !ok {
		return ""
	}
	val := cst.Val()
	if val.Kind() == constant.String {
		return constant.StringVal(val)
	}
	return val.ExactString()
}

func (c *collector) collectType(t *doc.Type) *member {
	if c.ignored(t.Doc) {
		return nil
	}
	spec := findTypeSpec(t.Decl, t.Name)
	var pos token.Pos
	if spec != nil {
		pos = spec.Pos()
	}
	m := c.newMember(c.typeKind(t), t.Name, t.Name, t.Doc, pos)

	for _, f := range t.Funcs {
		if fn := c.collectFunc(f, ""); fn != nil {
			m.Constructors = append(m.Constructors, fn)
		}
	}
	sortByLine(m.Constructors)

	for _, v := range t.Consts {
		for _, s := range v.Decl.Specs {
			vs, ok := s.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, ident := range vs.Names {
				if !ident.IsExported() {
					continue
				}
				value := c.newMember(kindEnumValue, ident.Name, t.Name+"."+ident.Name, specDoc(vs), ident.Pos())
				value.Value = c.constValue(ident.Name)
				m.Values = append(m.Values, value)
			}
		}
	}

	if spec != nil {
		switch typ := spec.Type.(type) {
		case *ast.StructType:
			m.Properties = c.collectFields(t.Name, typ.Fields)
		case *ast.InterfaceType:
			m.Methods = append(m.Methods, c.collectInterfaceMethods(t.Name, typ.Methods)...)
		}
	}

	for _, f := range t.Methods {
		if fn := c.collectFunc(f, t.Name); fn != nil {
			m.Methods = append(m.Methods, fn)
		}
	}
	return m
}

func (c *collector) collectFields(typeName string, fields *ast.FieldList) []*member {
	if fields == nil {
		return nil
	}
	var out []*member
	for _, field := range fields.List {
		text := fieldDoc(field)
		if c.ignored(text) {
			continue
		}
		for _, ident := range field.Names {
			if !ident.IsExported() {
				continue
			}
			out = append(out, c.newMember(kindProperty, ident.Name, typeName+"."+ident.Name, text, ident.Pos()))
		}
	}
	return out
}

func (c *collector) collectInterfaceMethods(typeName string, methods *ast.FieldList) []*member {
	if methods == nil {
		return nil
	}
	var out []*member
	for _, field := range methods.List {
		ft, ok := field.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		text := fieldDoc(field)
		if c.ignored(text) {
			continue
		}
		for _, ident := range field.Names {
			if !ident.IsExported() {
				continue
			}
			m := c.newMember(kindMethod, ident.Name, typeName+"."+ident.Name, text, ident.Pos())
			sig := buildSignature(c.fset, "", ident.Name, ft, c.opts.removePackagePrefix)
			m.Signature, m.WrappedSignature, m.Params = sig.flat, sig.wrapped, sig.params
			out = append(out, m)
		}
	}
	return out
}

func (c *collector) collectFunc(f *doc.Func, typeName string) *member {
	if f.Decl == nil || c.ignored(f.Doc) {
		return nil
	}
	kind, qualified := kindFunction, f.Name
	if typeName != "" {
		kind, qualified = kindMethod, typeName+"."+f.Name
	}
	m := c.newMember(kind, f.Name, qualified, f.Doc, f.Decl.Name.Pos())
	sig := funcSignature(c.fset, f.Decl, c.opts.removePackagePrefix)
	m.Signature, m.WrappedSignature, m.Params = sig.flat, sig.wrapped, sig.params
	return m
}

func findTypeSpec(decl *ast.GenDecl, name string) *ast.TypeSpec {
	if decl == nil {
		return nil
	}
	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		if ts.Name != nil && ts.Name.Name == name {
			return ts
		}
	}
	return nil
}

func specDoc(vs *ast.ValueSpec) string {
	if vs.Doc != nil {
		return vs.Doc.Text()
	}
	if vs.Comment != nil {
		return vs.Comment.Text()
	}
	return ""
}

func fieldDoc(field *ast.Field) string {
	if field.Doc != nil {
		return field.Doc.Text()
	}
	if field.Comment != nil {
		return field.Comment.Text()
	}
	return ""
}

func sortByLine(members []*member) {
	sort.SliceStable(members, func(i, j int) bool {
		return line(members[i]) < line(members[j])
	})
}

func line(m *member) int {
	if m.DeclaredAt == nil {
		return 0
	}
	return m.DeclaredAt.Line
}

// lookupSymbol finds a single type, function or method of the module, the
// way go doc resolves pkg.Symbol and pkg.Type.Method.
func (c *collector) lookupSymbol(symbol, method string) *member {
	if method == "" {
		for _, t := range c.doc.Types {
			if matchName(t.Name, symbol) {
				return c.collectType(t)
			}
		}
		for _, f := range c.doc.Funcs {
			if matchName(f.Name, symbol) {
				return c.collectFunc(f, "")
			}
		}
		for _, t := range c.doc.Types {
			for _, f := range t.Funcs {
				if matchName(f.Name, symbol) {
					return c.collectFunc(f, "")
				}
			}
		}
		return nil
	}
	for _, t := range c.doc.Types {
		if !matchName(t.Name, symbol) {
			continue
		}
		typ := c.collectType(t)
		if typ == nil {
			return nil
		}
		for _, m := range typ.Methods {
			if matchName(m.Name, method) {
				return m
			}
		}
	}
	return nil
}

// matchName follows go doc: a lower-case target matches any case, anything
// else must match exactly.
func matchName(name, target string) bool {
	if strings.ToLower(target) == target {
		return strings.EqualFold(name, target)
	}
	return name == target
}
