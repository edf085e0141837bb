package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"
)

type invocation struct {
	pkgExpr string
	symbol  string
	method  string
}

type cliApp struct {
	stdout  io.Writer
	stderr  io.Writer
	cfgFile string
	cfg     *config
	logger  *slog.Logger
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(argv)
	return cmd.ExecuteContext(ctx)
}

func (app *cliApp) execute(ctx context.Context, targets []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(targets) == 0 {
		targets = []string{"."}
	}
	if app.cfg.Validate {
		return app.validate(ctx, targets)
	}
	gen := newGenerator(app.cfg, app.stdout, app.logger)
	if err := gen.generate(ctx, targets); err != nil {
		return err
	}
	if app.cfg.Watch && !app.cfg.stdoutMode() {
		return watchAndRegenerate(ctx, gen, targets, app.logger)
	}
	return nil
}

func (app *cliApp) validate(ctx context.Context, targets []string) error {
	l := newLoader(app.cfg, app.logger)
	for _, target := range targets {
		var issues []docIssue
		err := l.visit(ctx, target, func(u docUnit) error {
			issues = append(issues, validateMember(u.member)...)
			return nil
		})
		if err != nil {
			return err
		}
		for _, issue := range issues {
			app.logger.Warn("docstring issue", "target", target, "issue", issue.String())
		}
		failed := len(issues) > 0
		if app.cfg.ValidateCommand != "" {
			if err := runValidateCommand(ctx, app.cfg.ValidateCommand, target, app.stderr, app.stderr); err != nil {
				app.logger.Warn("validation command failed", "target", target, "error", err)
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("%w: %s", errValidationFailed, target)
		}
		app.logger.Info("validation passed", "target", target)
	}
	return nil
}

// generator renders and writes every page of one run.
type generator struct {
	cfg    *config
	stdout io.Writer
	logger *slog.Logger

	// dirs holds the package directories loaded by the last run.
	dirs []string
}

func newGenerator(cfg *config, stdout io.Writer, logger *slog.Logger) *generator {
	return &generator{cfg: cfg, stdout: stdout, logger: logger}
}

func (g *generator) generate(ctx context.Context, targets []string) error {
	pages := newPageWriter(g.cfg, g.stdout, g.logger)
	if err := pages.prepare(); err != nil {
		return err
	}
	root, base := resolveSourceLinks(ctx, g.cfg)
	renderer := newRenderer(renderOptions{
		removePackagePrefix: g.cfg.RemovePackagePrefix,
		srcRootPath:         root,
		srcBaseURL:          base,
	})
	l := newLoader(g.cfg, g.logger)

	written := 0
	for _, target := range targets {
		g.logger.Info("generating docs", "target", target)
		err := l.visit(ctx, target, func(u docUnit) error {
			var buf bytes.Buffer
			renderer.beginPage(u.page)
			if u.symbol {
				renderer.renderMember(&buf, u.member)
			} else {
				renderer.renderModule(&buf, u.member, 1)
			}
			file, err := pages.writeMarkdownFile(u.page, buf.String())
			if err != nil {
				g.logger.Error("failed to write page", "module", u.page, "error", err)
				return nil
			}
			if file != "" {
				written++
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	g.dirs = l.packageDirs()

	if g.cfg.OverviewFile == "" || g.cfg.stdoutMode() {
		return nil
	}
	overview := g.cfg.OverviewFile
	if !strings.HasSuffix(overview, ".md") {
		overview += ".md"
	}
	renderer.beginPage("")
	if _, err := pages.writeMarkdownFile(overview, renderer.overviewMarkdown()); err != nil {
		return err
	}
	if err := pages.writeMkdocsPages(overview); err != nil {
		return err
	}
	broken, err := verifyOverviewLinks(g.cfg.OutputPath, overview)
	if err != nil {
		return err
	}
	for _, b := range broken {
		g.logger.Warn("broken overview link", "link", b.Destination, "reason", b.Reason)
	}
	g.logger.Debug("generation finished", "pages", written)
	return nil
}

// resolveSourceLinks returns the source root and link base, defaulting the
// root to the enclosing git work tree and the base to the root's path
// relative to the output directory.
func resolveSourceLinks(ctx context.Context, cfg *config) (string, string) {
	root, base := cfg.SrcRootPath, cfg.SrcBaseURL
	if root != "" {
		return root, base
	}
	root = gitTopLevel(ctx)
	if root == "" || base != "" || cfg.stdoutMode() {
		return root, base
	}
	out, err := filepath.Abs(cfg.OutputPath)
	if err != nil {
		return root, base
	}
	if rel, err := filepath.Rel(out, root); err == nil {
		base = filepath.ToSlash(rel)
	}
	return root, base
}

func gitTopLevel(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// docUnit is one page worth of documentation: a module, or a single symbol
// when the target named one.
type docUnit struct {
	page   string
	member *member
	symbol bool
}

// loader resolves targets into member descriptors, tracking ignored
// modules across targets.
type loader struct {
	opts    collectOptions
	ignored []string
	logger  *slog.Logger
	dirs    map[string]struct{}
}

func newLoader(cfg *config, logger *slog.Logger) *loader {
	return &loader{
		opts: collectOptions{
			ignoreMarker:        cfg.IgnoreMarker,
			removePackagePrefix: cfg.RemovePackagePrefix,
		},
		ignored: append([]string(nil), cfg.IgnoredModules...),
		logger:  logger,
		dirs:    make(map[string]struct{}),
	}
}

func (l *loader) packageDirs() []string {
	dirs := make([]string, 0, len(l.dirs))
	for dir := range l.dirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// visit calls fn for every unit target names. An unresolvable target is an
// error; problems with a single module are logged and skipped.
func (l *loader) visit(ctx context.Context, target string, fn func(docUnit) error) error {
	if strings.HasSuffix(target, ".go") {
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			return l.visitFile(ctx, target, fn)
		}
	}
	if info, err := os.Stat(strings.TrimSuffix(target, "/...")); err == nil && info.IsDir() {
		return l.visitTree(ctx, target, filepath.Base(resolveBaseDir(target)), "", fn)
	}

	var lastErr error
	for _, cand := range singleArgCandidates(target) {
		if cand.symbol == "" && cand.pkgExpr != target {
			continue
		}
		pkg, err := resolvePackage(ctx, cand.pkgExpr)
		if err != nil {
			lastErr = err
			continue
		}
		if cand.symbol == "" {
			return l.visitTree(ctx, pkg.PkgPath, path.Base(pkg.PkgPath), pkg.PkgPath, fn)
		}
		c, err := newCollector(pkg, pkg.Name, l.opts)
		if err != nil {
			lastErr = err
			continue
		}
		m := c.lookupSymbol(cand.symbol, cand.method)
		if m == nil {
			lastErr = fmt.Errorf("no matching symbol %q in %s", displaySymbol(cand.symbol, cand.method), pkg.PkgPath)
			continue
		}
		l.track(pkg)
		return fn(docUnit{page: pkg.Name + "." + m.QualifiedName, member: m, symbol: true})
	}
	if lastErr != nil {
		return fmt.Errorf("%w: %s: %v", errNoTargets, target, lastErr)
	}
	return fmt.Errorf("%w: %s", errNoTargets, target)
}

func (l *loader) visitFile(ctx context.Context, file string, fn func(docUnit) error) error {
	abs := absolutePath(file)
	pkg, err := loadPackage(ctx, "file="+abs)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errNoTargets, file, err)
	}
	return l.visitPackage(pkg, pkg.Name, fn)
}

// visitTree documents the package at root and every package below it.
// importRoot is set when root is an import path rather than a directory.
func (l *loader) visitTree(ctx context.Context, root, rootName, importRoot string, fn func(docUnit) error) error {
	pkgs, err := loadPackageTree(ctx, root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errNoTargets, root, err)
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("%w: %s", errNoTargets, root)
	}
	baseDir := resolveBaseDir(root)
	for _, pkg := range pkgs {
		var rel string
		if importRoot != "" {
			rel = strings.TrimPrefix(strings.TrimPrefix(pkg.PkgPath, importRoot), "/")
		} else {
			rel = deriveRelativeDir(pkg, baseDir, absolutePath(packageDir(pkg)))
		}
		if err := l.visitPackage(pkg, moduleName(rootName, rel), fn); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) visitPackage(pkg *packages.Package, module string, fn func(docUnit) error) error {
	if isModuleIgnored(module, l.ignored) {
		l.logger.Info("ignoring module", "module", module)
		l.ignored = append(l.ignored, module)
		return nil
	}
	if len(pkg.Errors) > 0 {
		l.logger.Error("failed to load module", "module", module, "error", pkg.Errors[0].Error())
		return nil
	}
	c, err := newCollector(pkg, module, l.opts)
	if err != nil {
		l.logger.Error("failed to read module docs", "module", module, "error", err)
		return nil
	}
	mod := c.collectModule()
	if mod == nil {
		l.logger.Info("ignoring module", "module", module)
		l.ignored = append(l.ignored, module)
		return nil
	}
	l.track(pkg)
	return fn(docUnit{page: module, member: mod})
}

func (l *loader) track(pkg *packages.Package) {
	if dir := absolutePath(packageDir(pkg)); dir != "" {
		l.dirs[dir] = struct{}{}
	}
}

// moduleName joins the root name and a slash-separated relative directory
// into a dotted module name.
func moduleName(rootName, rel string) string {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return rootName
	}
	return rootName + "." + strings.ReplaceAll(rel, "/", ".")
}

// isModuleIgnored reports whether module is private or sits at or below an
// ignored module.
func isModuleIgnored(module string, ignored []string) bool {
	if strings.HasPrefix(lastSegment(module), "_") {
		return true
	}
	for _, ig := range ignored {
		if ig == "" {
			continue
		}
		if module == ig || strings.HasPrefix(module, ig+".") {
			return true
		}
	}
	return false
}

func displaySymbol(symbol, method string) string {
	if symbol == "" {
		return ""
	}
	if method == "" {
		return symbol
	}
	return symbol + "." + method
}

func singleArgCandidates(arg string) []invocation {
	seen := make(map[string]struct{})
	var candidates []invocation
	add := func(pkgExpr, symbol, method string) {
		key := pkgExpr + "|" + symbol + "|" + method
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		cand := invocation{
			pkgExpr: pkgExpr,
			symbol:  symbol,
			method:  method,
		}
		if cand.pkgExpr == "" {
			cand.pkgExpr = "."
		}
		candidates = append(candidates, cand)
	}

	if startsWithUpper(arg) && !strings.ContainsAny(arg, `/\`) {
		// A bare exported name is a symbol of the current package.
		symbol, method := splitSymbol(arg)
		add(".", symbol, method)
	}

	// The whole argument as a package.
	add(arg, "", "")

	if strings.Contains(arg, ".") {
		for _, cand := range parseCompound(arg) {
			add(cand.pkgExpr, cand.symbol, cand.method)
		}
	}

	// Last resort: a symbol of the current package.
	symbol, method := splitSymbol(arg)
	add(".", symbol, method)

	return candidates
}

func parseCompound(arg string) []invocation {
	var result []invocation
	for i := 0; i < len(arg); i++ {
		if arg[i] != '.' {
			continue
		}
		pkgExpr := arg[:i]
		symbolSpec := arg[i+1:]
		if pkgExpr == "" || symbolSpec == "" || strings.HasPrefix(symbolSpec, "/") {
			continue
		}
		symbol, method := splitSymbol(symbolSpec)
		result = append(result, invocation{
			pkgExpr: pkgExpr,
			symbol:  symbol,
			method:  method,
		})
	}
	return result
}

func splitSymbol(spec string) (string, string) {
	if spec == "" {
		return "", ""
	}
	parts := strings.Split(spec, ".")
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], ".")
}

func startsWithUpper(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

const loadMode = packages.NeedName | packages.NeedCompiledGoFiles | packages.NeedFiles |
	packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo |
	packages.NeedTypesSizes | packages.NeedModule | packages.NeedImports

func loadPackage(ctx context.Context, pattern string) (*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages matched %q", pattern)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("%s", pkg.Errors[0])
	}
	return pkg, nil
}

func resolvePackage(ctx context.Context, expr string) (*packages.Package, error) {
	if expr == "" {
		expr = "."
	}
	if pkg, err := loadPackage(ctx, expr); err == nil {
		return pkg, nil
	}
	if match := matchStdSuffix(expr); match != "" {
		return loadPackage(ctx, match)
	}
	return nil, fmt.Errorf("could not resolve package path for %q", expr)
}

var (
	stdOnce     sync.Once
	stdPackages []string
	stdErr      error
)

func loadStdPackages() {
	cfg := &packages.Config{
		Mode: packages.NeedName,
	}
	pkgs, err := packages.Load(cfg, "std")
	if err != nil {
		stdErr = err
		return
	}
	for _, pkg := range pkgs {
		stdPackages = append(stdPackages, pkg.PkgPath)
	}
	sort.Strings(stdPackages)
}

func matchStdSuffix(arg string) string {
	if arg == "" || strings.HasPrefix(arg, ".") {
		return ""
	}
	stdOnce.Do(loadStdPackages)
	if stdErr != nil {
		return ""
	}
	var best string
	for _, pkgPath := range stdPackages {
		if pkgPath == arg || strings.HasSuffix(pkgPath, "/"+arg) {
			if best == "" || pkgPath < best {
				best = pkgPath
			}
		}
	}
	return best
}

func absolutePath(dir string) string {
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	return abs
}

func deriveRelativeDir(pkg *packages.Package, baseDir, pkgDir string) string {
	if baseDir != "" && pkgDir != "" {
		if rel, err := filepath.Rel(baseDir, pkgDir); err == nil && rel != "" && !strings.HasPrefix(rel, "..") {
			if rel == "." {
				return "."
			}
			return filepath.ToSlash(rel)
		}
	}
	if pkg.PkgPath != "" {
		return filepath.FromSlash(pkg.PkgPath)
	}
	if pkgDir != "" {
		return filepath.Base(pkgDir)
	}
	return pkg.Name
}

// loadPackageTree loads root and its sub-packages. Packages that fail to
// load are returned with their errors so callers can report them one by
// one.
func loadPackageTree(ctx context.Context, root string) ([]*packages.Package, error) {
	patterns := buildPatterns(root)
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, err
	}
	unique := make(map[string]*packages.Package)
	for _, pkg := range pkgs {
		key := pkg.PkgPath
		if key == "" {
			key = packageDir(pkg)
		}
		if key == "" && len(pkg.Errors) > 0 {
			return nil, errors.New(pkg.Errors[0].Error())
		}
		unique[key] = pkg
	}
	result := make([]*packages.Package, 0, len(unique))
	for _, pkg := range unique {
		result = append(result, pkg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PkgPath < result[j].PkgPath
	})
	return result, nil
}

func buildPatterns(root string) []string {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	root = filepath.ToSlash(root)
	patterns := []string{root}
	if !strings.Contains(root, "...") {
		recursive := root
		if recursive == "." {
			recursive = "./..."
		} else if strings.HasSuffix(recursive, "/") {
			recursive = recursive + "..."
		} else {
			recursive = recursive + "/..."
		}
		patterns = append(patterns, recursive)
	}
	return patterns
}

func resolveBaseDir(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	root = strings.TrimSuffix(root, "/...")
	root = strings.TrimSuffix(root, "\\...")
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return ""
	}
	base, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	return base
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}
	if len(pkg.CompiledGoFiles) > 0 {
		return filepath.Dir(pkg.CompiledGoFiles[0])
	}
	return ""
}
