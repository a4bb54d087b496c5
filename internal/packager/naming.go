package packager

import "strings"

// DefaultServiceName is used when no usable name can be derived.
const DefaultServiceName = "VehicleService"

const (
	maxServiceName = 60
	maxSlug        = 25
)

// ServiceName derives a display name from a free-text description: the
// text before " that ", without a leading "Create a"/"Create an".
func ServiceName(description string) string {
	name := strings.SplitN(description, " that ", 2)[0]
	name = strings.ReplaceAll(name, "Create a ", "")
	name = strings.ReplaceAll(name, "Create an ", "")
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxServiceName {
		return DefaultServiceName
	}
	return name
}

// Slug is the lowercase, underscore-separated directory name of a service.
// Only [a-z0-9_-] survive, so the result is safe as a path element and an
// object key segment.
func Slug(name string) string {
	slug := sanitize(name, '_')
	if len(slug) > maxSlug {
		slug = slug[:maxSlug]
	}
	if strings.Trim(slug, "_-") == "" {
		return Slug(DefaultServiceName)
	}
	return slug
}

// ArchiveName is the download file name for a service.
func ArchiveName(name string) string {
	return Slug(name) + "_project.zip"
}

func binaryName(name string) string {
	if n := sanitize(name, '_'); strings.Trim(n, "_-") != "" {
		return n
	}
	return sanitize(DefaultServiceName, '_')
}

func composeName(name string) string {
	if n := sanitize(name, '-'); strings.Trim(n, "_-") != "" {
		return n
	}
	return sanitize(DefaultServiceName, '-')
}

// sanitize lowercases name, turns spaces into sep and every other byte
// outside [a-z0-9_-] into '_'.
func sanitize(name string, sep byte) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r == ' ':
			b.WriteByte(sep)
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
