package plan

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// LogoBase is the URL prefix under which brand logos are served.
	LogoBase = "/logos/"
	// DefaultLogo is substituted whenever a brand logo cannot be resolved.
	DefaultLogo = LogoBase + "default.png"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeSlug    = regexp.MustCompile(`[^a-z0-9-]`)
)

// CleanStep turns a step identifier like "isolate_12v_battery" into
// "Isolate 12v battery". Only an ASCII leading letter is upper-cased.
func CleanStep(step string) string {
	label := strings.TrimSpace(strings.ReplaceAll(step, "_", " "))
	if label == "" {
		return ""
	}
	if c := label[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + label[1:]
	}
	return label
}

// ComponentName replaces underscores with spaces and leaves case untouched.
func ComponentName(component string) string {
	return strings.ReplaceAll(component, "_", " ")
}

// BrandSlug folds a brand to the file-safe form used for logo assets
// ("Škoda" -> "skoda", "Land Rover" -> "land-rover").
func BrandSlug(brand string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, brand)
	if err != nil {
		folded = brand
	}
	slug := strings.ToLower(strings.TrimSpace(folded))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	return unsafeSlug.ReplaceAllString(slug, "")
}

// LogoPath returns the logo URL for a brand, or "" when no brand is known.
func LogoPath(brand string) string {
	slug := BrandSlug(brand)
	if slug == "" {
		return ""
	}
	return LogoBase + slug + ".png"
}
