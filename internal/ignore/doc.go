// Package ignore compiles ignore-rule files (gitignore syntax subset) into
// predicates over template-relative paths.
//
// # Rule Conventions
//
// Each non-blank line that does not start with '#' is one rule:
//
//   - `node_modules` - plain text, ignores any path containing it
//   - `/dist` - leading slash, ignores exactly that path from the root
//   - `build/` - trailing slash, ignores that directory and everything below
//   - `*.log`, `**/*.tmp` - globs; `*` stays within a segment, `**` spans segments
//
// Rules are independent: a path is ignored when any rule matches it.
// Negation (`!pattern`) is not supported; such a line is kept as a plain-text
// rule and therefore never re-includes anything.
//
// Paths handed to the matcher are relative to the template root and use '/'.
package ignore
