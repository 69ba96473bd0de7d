package ignore

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind selects how a rule's pattern is compared with a path.
type Kind int

const (
	// KindLiteral ignores paths that contain the pattern anywhere.
	KindLiteral Kind = iota
	// KindAnchored ignores the path equal to the pattern, measured from the root.
	KindAnchored
	// KindGlob matches the whole path against a doublestar glob.
	KindGlob
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindAnchored:
		return "anchored"
	case KindGlob:
		return "glob"
	default:
		return "unknown"
	}
}

// Rule is one normalized ignore rule.
type Rule struct {
	Raw     string // line as written in the ignore file, trimmed
	Pattern string // pattern without the leading and trailing slash
	Kind    Kind
	DirOnly bool // trailing slash: the directory and everything beneath it
}

// ParseRule normalizes a single ignore-file line. It returns false for blank
// lines, comments, and lines with no pattern left after normalization.
func ParseRule(line string) (Rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Rule{}, false
	}

	r := Rule{Raw: line, Kind: KindLiteral}
	p := line

	anchored := false
	if strings.HasPrefix(p, "/") {
		anchored = true
		p = strings.TrimLeft(p, "/")
	}
	if strings.HasSuffix(p, "/") {
		r.DirOnly = true
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return Rule{}, false
	}
	r.Pattern = p

	switch {
	case strings.Contains(p, "*") && doublestar.ValidatePattern(p):
		r.Kind = KindGlob
	case anchored:
		r.Kind = KindAnchored
	}
	return r, true
}

// Match reports whether rel (slash-separated, relative to the template root)
// is ignored by this rule. isDir tells whether rel itself is a directory.
func (r Rule) Match(rel string, isDir bool) bool {
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return false
	}

	if r.DirOnly {
		return r.matchDir(rel, isDir)
	}

	switch r.Kind {
	case KindGlob:
		return globMatch(r.Pattern, rel)
	case KindAnchored:
		return rel == r.Pattern
	default:
		return strings.Contains(rel, r.Pattern)
	}
}

// matchDir matches rel when it is the directory named by the rule, or when
// one of its ancestors is. Directory rules are anchored at the template root.
func (r Rule) matchDir(rel string, isDir bool) bool {
	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' && r.matchSegmentPrefix(rel[:i]) {
			return true
		}
	}
	return isDir && r.matchSegmentPrefix(rel)
}

func (r Rule) matchSegmentPrefix(prefix string) bool {
	if r.Kind == KindGlob {
		return globMatch(r.Pattern, prefix)
	}
	return prefix == r.Pattern
}

func globMatch(pattern, rel string) bool {
	ok, err := doublestar.Match(pattern, rel)
	return err == nil && ok
}
