package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion parses a manifest version, tolerating a leading "v".
func ParseVersion(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(version), "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", version, err)
	}
	return v, nil
}

// DisplayVersion renders a manifest version for listings. Valid versions
// are normalised; anything else is returned as written, or "-" when empty.
func DisplayVersion(version string) string {
	if strings.TrimSpace(version) == "" {
		return "-"
	}
	v, err := ParseVersion(version)
	if err != nil {
		return version
	}
	return v.String()
}
