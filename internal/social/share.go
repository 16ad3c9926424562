// Package social builds share links for generated posts. Platforms without
// a web share intent (Instagram, TikTok) return an empty URL; the UI shows
// a copy-to-clipboard action for those instead.
package social

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/minutelaunch/minutelaunch/internal/platform"
)

// ShareURL returns a prefilled share intent URL for a post on the given
// platform, or "" when the platform has no share endpoint.
func ShareURL(p platform.Platform, pageURL, postText string) string {
	switch p {
	case platform.Facebook:
		return fmt.Sprintf("https://www.facebook.com/sharer/sharer.php?u=%s&quote=%s",
			url.QueryEscape(pageURL),
			url.QueryEscape(postText),
		)
	case platform.Twitter:
		tweet := postText
		if pageURL != "" {
			tweet = fmt.Sprintf("%s\n\n%s", postText, pageURL)
		}
		return fmt.Sprintf("https://twitter.com/intent/tweet?text=%s", url.QueryEscape(tweet))
	case platform.LinkedIn:
		return fmt.Sprintf("https://www.linkedin.com/sharing/share-offsite/?url=%s", url.QueryEscape(pageURL))
	case platform.Pinterest:
		return fmt.Sprintf("https://pinterest.com/pin/create/button/?url=%s&description=%s",
			url.QueryEscape(pageURL),
			url.QueryEscape(postText),
		)
	}
	return ""
}

// ComposeText joins a post's copy with its hashtags the way the platforms
// expect them: appended on their own line.
func ComposeText(caption string, hashtags []string) string {
	caption = strings.TrimSpace(caption)
	tags := make([]string, 0, len(hashtags))
	for _, tag := range hashtags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + strings.ReplaceAll(tag, " ", "")
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return caption
	}
	if caption == "" {
		return strings.Join(tags, " ")
	}
	return caption + "\n\n" + strings.Join(tags, " ")
}
