package archive

import (
	"fmt"
	"strings"
)

// Format identifies an archive container and its compression.
type Format string

const (
	FormatZip    Format = "zip"
	FormatTarGz  Format = "tar.gz"
	FormatTarZst Format = "tar.zst"
)

var allFormats = []Format{FormatZip, FormatTarGz, FormatTarZst}

// Formats returns every supported format.
func Formats() []Format {
	out := make([]Format, len(allFormats))
	copy(out, allFormats)
	return out
}

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch s {
	case "zip":
		return FormatZip, nil
	case "tar.gz", "tgz":
		return FormatTarGz, nil
	case "tar.zst", "tzst":
		return FormatTarZst, nil
	}
	return "", fmt.Errorf("unsupported archive format %q (supported: zip, tar.gz, tar.zst)", s)
}

// Ext returns the file suffix for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// FormatFromName detects the format from a file name suffix.
func FormatFromName(name string) (Format, bool) {
	lower := strings.ToLower(name)
	for _, f := range allFormats {
		if strings.HasSuffix(lower, f.Ext()) {
			return f, true
		}
	}
	return "", false
}

// TrimExt strips a recognised archive suffix from name. Names without one are
// returned unchanged.
func TrimExt(name string) string {
	if f, ok := FormatFromName(name); ok {
		return name[:len(name)-len(f.Ext())]
	}
	return name
}

// Extensions lists the recognised archive suffixes.
func Extensions() []string {
	out := make([]string, 0, len(allFormats))
	for _, f := range allFormats {
		out = append(out, f.Ext())
	}
	return out
}
