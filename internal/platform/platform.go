// Package platform is the single source of truth for social channel
// identifiers. Every piece of generated content is keyed by one of these
// tokens, so all alias handling lives here rather than at call sites.
package platform

import "strings"

type Platform string

const (
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
	Facebook  Platform = "facebook"
	LinkedIn  Platform = "linkedin"
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
	Pinterest Platform = "pinterest"
	Substack  Platform = "substack"
)

var All = []Platform{
	Instagram,
	Twitter,
	Facebook,
	LinkedIn,
	YouTube,
	TikTok,
	Pinterest,
	Substack,
}

// aliases maps the spellings we actually see in generated output and user
// input. Keys are looked up as-given first, then lowercased, so both
// "Instagram" and "ig" resolve without a second table.
var aliases = map[string]Platform{
	"Instagram": Instagram,
	"Twitter":   Twitter,
	"Facebook":  Facebook,
	"LinkedIn":  LinkedIn,
	"Linkedin":  LinkedIn,
	"YouTube":   YouTube,
	"Youtube":   YouTube,
	"TikTok":    TikTok,
	"Tiktok":    TikTok,
	"Pinterest": Pinterest,
	"Substack":  Substack,
	"x":         Twitter,
	"X":         Twitter,
	"ig":        Instagram,
	"fb":        Facebook,
	"yt":        YouTube,
	"threads":   Instagram,
	"instagram": Instagram,
	"twitter":   Twitter,
	"facebook":  Facebook,
	"linkedin":  LinkedIn,
	"youtube":   YouTube,
	"tiktok":    TikTok,
	"pinterest": Pinterest,
	"substack":  Substack,
}

// Normalize maps any platform-ish string to its canonical token. Unrecognized
// strings pass through lowercased and trimmed so callers can still render an
// "unknown but present" bucket instead of dropping content. Total: never
// returns an empty token for non-empty input.
func Normalize(raw string) Platform {
	trimmed := strings.TrimSpace(raw)
	if p, ok := aliases[trimmed]; ok {
		return p
	}
	lower := strings.ToLower(trimmed)
	if p, ok := aliases[lower]; ok {
		return p
	}
	return Platform(lower)
}

// IsCanonical reports whether p is one of the known tokens.
func IsCanonical(p Platform) bool {
	for _, known := range All {
		if p == known {
			return true
		}
	}
	return false
}

// DisplayName returns the user-facing spelling for a token.
func DisplayName(p Platform) string {
	switch p {
	case Instagram:
		return "Instagram"
	case Twitter:
		return "X (Twitter)"
	case Facebook:
		return "Facebook"
	case LinkedIn:
		return "LinkedIn"
	case YouTube:
		return "YouTube"
	case TikTok:
		return "TikTok"
	case Pinterest:
		return "Pinterest"
	case Substack:
		return "Substack"
	}
	name := string(p)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
