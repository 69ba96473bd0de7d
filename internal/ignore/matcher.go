package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/monokit-dev/monokit/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ParseRules reads one rule per line from r. Lines may be of any length.
func ParseRules(r io.Reader) ([]Rule, error) {
	logger := logging.GetLogger("ignore")

	var rules []Rule
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading ignore rules: %w", err)
		}
		if rule, ok := ParseRule(line); ok {
			if strings.HasPrefix(rule.Raw, "!") {
				logger.Debug().Str("rule", rule.Raw).Msg("Negation is not supported, keeping line as plain text")
			}
			rules = append(rules, rule)
		}
		if err != nil {
			return rules, nil
		}
	}
}

// LoadFile parses the ignore-rule file at path. The error from opening the
// file is wrapped so callers can test for fs.ErrNotExist.
func LoadFile(fs afero.Fs, path string) ([]Rule, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ignore file %s: %w", path, err)
	}
	defer f.Close()

	return ParseRules(f)
}

// Matcher evaluates a set of rules. A path is ignored when any rule matches.
type Matcher struct {
	rules  []Rule
	logger zerolog.Logger
}

// NewMatcher creates a matcher over rules.
func NewMatcher(rules []Rule) *Matcher {
	return &Matcher{
		rules:  rules,
		logger: logging.GetLogger("ignore"),
	}
}

// Ignored reports whether rel is ignored. A nil matcher ignores nothing.
func (m *Matcher) Ignored(rel string, isDir bool) bool {
	if m == nil {
		return false
	}
	for _, r := range m.rules {
		if r.Match(rel, isDir) {
			m.logger.Trace().
				Str("path", rel).
				Str("rule", r.Raw).
				Str("kind", r.Kind.String()).
				Msg("Path ignored")
			return true
		}
	}
	return false
}

// Rules returns the compiled rules.
func (m *Matcher) Rules() []Rule {
	if m == nil {
		return nil
	}
	return m.rules
}

// Len returns the number of rules.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}
