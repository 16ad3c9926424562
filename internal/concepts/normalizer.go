// Package concepts reshapes loosely structured campaign output from the AI
// gateway into the canonical structure the rest of the app stores and renders.
//
// Generated JSON is unreliable about how it encodes per-platform posts, so
// normalization tries a fixed sequence of known shapes and takes the first
// one that yields any posts. A concept that can't be interpreted at all still
// comes back as a valid Concept with an empty post map; one bad concept never
// fails the batch.
package concepts

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minutelaunch/minutelaunch/internal/platform"
)

type MediaGuide struct {
	Idea       string   `json:"idea,omitempty"`
	VideoBeats []string `json:"video_beats,omitempty"`
	Carousel   []string `json:"carousel,omitempty"`
	Specs      []string `json:"specs,omitempty"`
}

type Post struct {
	Platform   platform.Platform `json:"platform"`
	Hook       string            `json:"hook"`
	Caption    string            `json:"caption"`
	Hashtags   []string          `json:"hashtags"`
	MediaGuide *MediaGuide       `json:"media_guide,omitempty"`
}

type Cadence struct {
	Days  int `json:"days"`
	Posts int `json:"posts"`
}

type Concept struct {
	ID                 string                         `json:"id"`
	Title              string                         `json:"title"`
	Promise            string                         `json:"promise"`
	Cadence            Cadence                        `json:"cadence"`
	KeyMessages        []string                       `json:"key_messages"`
	SuggestedPlatforms []platform.Platform            `json:"suggested_platforms"`
	PostsByPlatform    map[platform.Platform][]Post   `json:"posts_by_platform"`
	Goal               string                         `json:"goal,omitempty"`
	Audience           []string                       `json:"audience"`
}

var defaultCadence = Cadence{Days: 7, Posts: 5}

// NormalizeConcepts folds a batch of raw concept objects into canonical
// Concepts. It never fails: uninterpretable entries degrade to defaults.
// Inbound ids are ignored; every concept gets a fresh one.
func NormalizeConcepts(raw []any) []Concept {
	out := make([]Concept, 0, len(raw))
	for i, entry := range raw {
		out = append(out, normalizeConcept(entry, i))
	}
	return out
}

func normalizeConcept(raw any, index int) Concept {
	c := Concept{
		ID:                 uuid.New().String(),
		Title:              defaultTitle(index),
		Cadence:            defaultCadence,
		KeyMessages:        []string{},
		SuggestedPlatforms: []platform.Platform{},
		PostsByPlatform:    map[platform.Platform][]Post{},
		Audience:           []string{},
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return c
	}

	if title := firstString(obj, "title", "name"); title != "" {
		c.Title = title
	}
	c.Promise = firstString(obj, "promise", "one_line_promise")
	c.Goal = firstString(obj, "goal")
	c.Audience = stringList(pick(obj, "audience", "target_audience"))

	if msgs := stringList(pick(obj, "key_messages", "keyMessages")); len(msgs) > 0 {
		c.KeyMessages = msgs
	}
	for _, s := range stringList(pick(obj, "suggested_platforms", "suggestedPlatforms")) {
		c.SuggestedPlatforms = append(c.SuggestedPlatforms, platform.Normalize(s))
	}

	if cad, ok := pick(obj, "cadence").(map[string]any); ok {
		if days := intOf(cad["days"]); days > 0 {
			c.Cadence.Days = days
		}
		if posts := intOf(cad["posts"]); posts > 0 {
			c.Cadence.Posts = posts
		}
	}

	c.PostsByPlatform = extractPosts(obj)
	return c
}

// extractPosts tries the known post encodings in preference order and stops
// at the first one that yields at least one platform bucket:
//
//  1. a posts_by_platform / postsByPlatform object keyed by platform
//  2. a flat posts array where each post names its own platform
//  3. exploded top-level "<platform>Posts" keys
func extractPosts(obj map[string]any) map[platform.Platform][]Post {
	if grouped := postsFromKeyedObject(obj); len(grouped) > 0 {
		return grouped
	}
	if grouped := postsFromFlatList(obj); len(grouped) > 0 {
		return grouped
	}
	if grouped := postsFromExplodedKeys(obj); len(grouped) > 0 {
		return grouped
	}
	return map[platform.Platform][]Post{}
}

func postsFromKeyedObject(obj map[string]any) map[platform.Platform][]Post {
	grouped := map[platform.Platform][]Post{}
	byPlatform, ok := pick(obj, "posts_by_platform", "postsByPlatform").(map[string]any)
	if !ok {
		return grouped
	}
	for key, val := range byPlatform {
		arr, ok := val.([]any)
		if !ok {
			continue
		}
		p := platform.Normalize(key)
		grouped[p] = append(grouped[p], normalizePostList(arr, p)...)
	}
	return grouped
}

func postsFromFlatList(obj map[string]any) map[platform.Platform][]Post {
	grouped := map[platform.Platform][]Post{}
	arr, ok := pick(obj, "posts").([]any)
	if !ok {
		return grouped
	}
	for _, el := range arr {
		postObj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		raw := firstString(postObj, "platform")
		if raw == "" {
			// No platform, no bucket to put it in.
			continue
		}
		p := platform.Normalize(raw)
		grouped[p] = append(grouped[p], normalizePost(postObj, p))
	}
	return grouped
}

func postsFromExplodedKeys(obj map[string]any) map[platform.Platform][]Post {
	grouped := map[platform.Platform][]Post{}
	for key, val := range obj {
		arr, ok := val.([]any)
		if !ok {
			continue
		}
		lower := strings.ToLower(key)
		for _, known := range platform.All {
			if !strings.Contains(lower, string(known)) {
				continue
			}
			grouped[known] = append(grouped[known], normalizePostList(arr, known)...)
			break
		}
	}
	return grouped
}

// normalizePostList maps every element of a platform bucket to a Post.
// Malformed elements are kept, not dropped: a bare string becomes a
// caption-only post and anything else becomes an empty post carrying the
// group's platform.
func normalizePostList(arr []any, group platform.Platform) []Post {
	posts := make([]Post, 0, len(arr))
	for _, el := range arr {
		switch v := el.(type) {
		case map[string]any:
			posts = append(posts, normalizePost(v, group))
		case string:
			posts = append(posts, Post{Platform: group, Caption: v})
		default:
			posts = append(posts, Post{Platform: group})
		}
	}
	return posts
}

func normalizePost(obj map[string]any, group platform.Platform) Post {
	p := group
	if raw := firstString(obj, "platform"); raw != "" {
		p = platform.Normalize(raw)
	}
	post := Post{
		Platform: p,
		Hook:     firstString(obj, "hook"),
		Caption:  firstString(obj, "caption", "body", "text"),
		Hashtags: stringList(pick(obj, "hashtags")),
	}
	if guide, ok := pick(obj, "media_guide", "mediaGuide").(map[string]any); ok {
		post.MediaGuide = &MediaGuide{
			Idea:       firstString(guide, "idea"),
			VideoBeats: stringList(pick(guide, "video_beats", "videoBeats")),
			Carousel:   stringList(pick(guide, "carousel")),
			Specs:      stringList(pick(guide, "specs")),
		}
	}
	return post
}

// TotalPosts counts posts across all platforms. Used for observability only:
// callers flag zero-post concepts so the UI can offer a regenerate action.
func TotalPosts(c Concept) int {
	total := 0
	for _, posts := range c.PostsByPlatform {
		total += len(posts)
	}
	return total
}

func defaultTitle(index int) string {
	return fmt.Sprintf("Concept %d", index+1)
}

func pick(obj map[string]any, keys ...string) any {
	for _, key := range keys {
		if val, ok := obj[key]; ok && val != nil {
			return val
		}
	}
	return nil
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// stringList coerces whatever the model produced into a string slice: a bare
// string becomes a one-element slice, arrays keep their string members, and
// anything else is empty.
func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return []string{trimmed}
		}
	case []any:
		out := make([]string, 0, len(val))
		for _, el := range val {
			if s, ok := el.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	}
	return []string{}
}

func intOf(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	}
	return 0
}
