// Package manifest reads, validates and rewrites an application's
// package.json. Validation runs against an embedded JSON Schema; rewriting
// touches only the targeted field and leaves the rest of the document as
// written.
package manifest
