// Package config manages repository-level settings stored in .monokit.yaml at
// the repository root. Values can be overridden with MONOKIT_* environment
// variables; the typed Settings snapshot tells the rest of the program where
// applications, templates, and the ignore-rule file live.
package config
