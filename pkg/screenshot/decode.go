package screenshot

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind tags the outcome of decoding a file name.
type Kind int

const (
	// KindDecoded means the name was percent-decoded into an identifier.
	KindDecoded Kind = iota
	// KindFallback means decoding failed and the raw name is the identifier.
	KindFallback
)

func (k Kind) String() string {
	switch k {
	case KindDecoded:
		return "decoded"
	case KindFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Key is the identifier recovered from a screenshot file name.
type Key struct {
	Kind   Kind
	ID     string // catalog identifier to look up
	Source string // decoded capture URL, empty for fallbacks
	Raw    string // base name without directory and image extension
}

// Canonical returns the decoded source URL used to disambiguate duplicate
// files. Fallback keys have none.
func (k Key) Canonical() (string, bool) {
	switch k.Kind {
	case KindDecoded:
		return k.Source, true
	default:
		return "", false
	}
}

var (
	// urnName matches "<letters>-<digits>-<rest>", e.g. "bel-1389570-nb-...".
	urnName = regexp.MustCompile(`^([A-Za-z]+-[0-9]+)-(.+)$`)

	// waybackPrefix matches the replay prefix of a wayback URL up to and
	// including the 14-digit timestamp and an optional modifier ("id_").
	waybackPrefix = regexp.MustCompile(`^(?:.*?/)?[0-9]{14}(?:[a-z]{2}_)?/(.+)$`)
)

// Decode recovers the catalog identifier embedded in a screenshot path. It
// never fails: names that are not valid percent-encoding, or whose escapes
// do not decode to UTF-8, come back as KindFallback keyed by the raw name.
func Decode(path string) Key {
	raw := trimImageExt(filepath.Base(path))

	name, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(name) {
		return Key{Kind: KindFallback, ID: raw, Raw: raw}
	}

	if m := urnName.FindStringSubmatch(name); m != nil {
		return Key{Kind: KindDecoded, ID: m[1], Source: sourceURL(m[2]), Raw: raw}
	}
	return Key{Kind: KindDecoded, ID: name, Source: unescapeOnce(name), Raw: raw}
}

// sourceURL decodes the remainder of an archive-URN name into the URL that
// was captured.
func sourceURL(rest string) string {
	s := unescapeOnce(rest)
	if m := waybackPrefix.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// unescapeOnce applies one more level of percent-decoding, leaving s as is
// when it is not valid encoding or does not decode to UTF-8.
func unescapeOnce(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	if u, err := url.PathUnescape(s); err == nil && utf8.ValidString(u) {
		return u
	}
	return s
}

// imageExts lists the screenshot formats produced by the capture service.
var imageExts = []string{".jpg", ".jpeg", ".webp"}

// IsImage reports whether name has a screenshot image extension.
func IsImage(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func trimImageExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range imageExts {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
