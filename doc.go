// # lazydocs
//
// `lazydocs` turns Google-style doc comments into Markdown API reference
// pages. Section headers such as `Args:`, `Returns:`, `Raises:` and `Note:`
// become bold headings, argument entries become bullet lists, `::` literal
// blocks and fenced code survive as code blocks, and `>>>` lines become
// inline code. Packages are loaded with `golang.org/x/tools/go/packages` and
// read with `go/doc`; the comment rewriting lives in the `docstring`
// package.
//
// Key capabilities:
//
//   - one page per package, named after the dotted module path
//     (`example.md`, `example.subpkg.md`), with sections for global
//     variables, functions, classes, exceptions and enums.
//   - single symbol pages for `pkg.Symbol` and `pkg.Type.Method` targets,
//     resolved the way `go doc` resolves its arguments.
//   - source links pointing at the declaring line, relative to the git work
//     tree or to a configured base URL.
//   - an API overview page plus an mkdocs `.pages` file, with every
//     overview anchor checked against the generated headings.
//   - a validation mode that reports badly capitalized or empty sections and
//     argument lists that drift from the function signature.
//   - a watch mode that regenerates pages whenever a Go file changes.
//
// ## Usage
//
//	lazydocs [flags] [target...]
//
// Examples:
//
//   - Document the current module into ./docs:
//
//     lazydocs ./...
//
//   - Write pages plus an overview and mkdocs navigation:
//
//     lazydocs -o ./docs/api --overview-file README.md ./internal/...
//
//   - Print a single method page:
//
//     lazydocs -o stdout ./store.Cache.Get
//
//   - Check doc comments in CI:
//
//     lazydocs --validate ./...
//
// ## Configuration
//
// Settings are read from `.lazydocs.yaml` (or the file passed with
// `--config`), then `LAZYDOCS_*` environment variables, then flags, each
// layer overriding the previous one. Keys are the long flag names with
// dashes replaced by underscores:
//
//	output_path: ./docs/api
//	overview_file: README.md
//	src_base_url: https://github.com/acme/store/blob/main
//	ignored_modules:
//	  - store.internal
//
// ## Ignoring
//
// A module is skipped when its last path element starts with `_`, when it is
// listed in `ignored_modules` or sits below one, or when its package comment
// contains the ignore marker. Any symbol whose comment contains
// `lazydocs: ignore` is left out of the pages.
//
// ## Shell Completion
//
//	lazydocs completion bash        # bash
//	lazydocs completion zsh         # zsh
//	lazydocs completion fish | source
//	lazydocs completion powershell | Out-String | Invoke-Expression
//
// ## CLI Docs
//
// `gen-docs` writes one Markdown file per CLI command:
//
//	lazydocs gen-docs ./docs/cli
package main
