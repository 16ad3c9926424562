package concepts

import (
	"encoding/json"
	"testing"

	"github.com/minutelaunch/minutelaunch/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) []any {
	t.Helper()
	var out []any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestNormalizeEmptyObjectGetsDefaults(t *testing.T) {
	result := NormalizeConcepts(decode(t, `[{}]`))
	require.Len(t, result, 1)

	c := result[0]
	assert.Equal(t, "Concept 1", c.Title)
	assert.Equal(t, Cadence{Days: 7, Posts: 5}, c.Cadence)
	assert.NotEmpty(t, c.ID)
	assert.NotNil(t, c.PostsByPlatform)
	assert.Empty(t, c.PostsByPlatform)
	assert.Empty(t, c.KeyMessages)
	assert.Empty(t, c.Audience)
	assert.Zero(t, TotalPosts(c))
}

func TestNormalizeAssignsFreshIDs(t *testing.T) {
	result := NormalizeConcepts(decode(t, `[{"id":"evil-inbound-id"},{"id":"evil-inbound-id"}]`))
	require.Len(t, result, 2)
	assert.NotEqual(t, "evil-inbound-id", result[0].ID)
	assert.NotEqual(t, result[0].ID, result[1].ID)
}

func TestPreferredShapeWinsOverFlatPosts(t *testing.T) {
	raw := `[{
		"posts_by_platform": {"Instagram": [{"hook": "from preferred"}]},
		"posts": [{"platform": "twitter", "hook": "from flat"}]
	}]`
	result := NormalizeConcepts(decode(t, raw))
	require.Len(t, result, 1)

	c := result[0]
	require.Len(t, c.PostsByPlatform, 1)
	posts := c.PostsByPlatform[platform.Instagram]
	require.Len(t, posts, 1)
	assert.Equal(t, "from preferred", posts[0].Hook)
	assert.NotContains(t, c.PostsByPlatform, platform.Twitter)
}

func TestFlatPostsGroupedByOwnPlatform(t *testing.T) {
	raw := `[{
		"posts": [
			{"platform": "IG", "caption": "one"},
			{"platform": "x", "caption": "two"},
			{"platform": "ig", "caption": "three"},
			{"caption": "no platform, no bucket"}
		]
	}]`
	result := NormalizeConcepts(decode(t, raw))
	require.Len(t, result, 1)

	c := result[0]
	assert.Len(t, c.PostsByPlatform[platform.Instagram], 2)
	assert.Len(t, c.PostsByPlatform[platform.Twitter], 1)
	assert.Equal(t, 3, TotalPosts(c))
}

func TestExplodedKeysDetected(t *testing.T) {
	raw := `[{
		"title": "Launch Week",
		"instagramPosts": [{"hook": "h1", "caption": "c1", "hashtags": ["x"]}],
		"TwitterPosts": [{"hook": "h2", "caption": "c2", "hashtags": []}]
	}]`
	result := NormalizeConcepts(decode(t, raw))
	require.Len(t, result, 1)

	c := result[0]
	require.Len(t, c.PostsByPlatform, 2)

	ig := c.PostsByPlatform[platform.Instagram]
	require.Len(t, ig, 1)
	assert.Equal(t, platform.Instagram, ig[0].Platform)
	assert.Equal(t, "h1", ig[0].Hook)
	assert.Equal(t, []string{"x"}, ig[0].Hashtags)

	tw := c.PostsByPlatform[platform.Twitter]
	require.Len(t, tw, 1)
	assert.Equal(t, platform.Twitter, tw[0].Platform)
	assert.Equal(t, "h2", tw[0].Hook)
}

func TestPostPlatformDefaultsToGroupKey(t *testing.T) {
	raw := `[{
		"posts_by_platform": {
			"fb": [
				{"hook": "inherits group"},
				{"platform": "yt", "hook": "keeps own"}
			]
		}
	}]`
	result := NormalizeConcepts(decode(t, raw))
	posts := result[0].PostsByPlatform[platform.Facebook]
	require.Len(t, posts, 2)
	assert.Equal(t, platform.Facebook, posts[0].Platform)
	assert.Equal(t, platform.YouTube, posts[1].Platform)
}

func TestMalformedPostsAreKeptNotDropped(t *testing.T) {
	raw := `[{
		"posts_by_platform": {
			"instagram": ["just a caption string", 42, {"hook": "real"}],
			"twitter": "not an array"
		}
	}]`
	result := NormalizeConcepts(decode(t, raw))
	c := result[0]

	ig := c.PostsByPlatform[platform.Instagram]
	require.Len(t, ig, 3)
	assert.Equal(t, "just a caption string", ig[0].Caption)
	assert.Equal(t, platform.Instagram, ig[1].Platform)
	assert.Equal(t, "real", ig[2].Hook)

	// The non-array bucket is the one thing that does get dropped.
	assert.NotContains(t, c.PostsByPlatform, platform.Twitter)
}

func TestFieldDefaulting(t *testing.T) {
	raw := `[{
		"name": "Fallback Name",
		"one_line_promise": "ship it",
		"audience": "busy parents",
		"suggested_platforms": ["IG", "x", "pinterest"],
		"cadence": {"days": 14, "posts": 10},
		"goal": "awareness"
	}]`
	result := NormalizeConcepts(decode(t, raw))
	c := result[0]

	assert.Equal(t, "Fallback Name", c.Title)
	assert.Equal(t, "ship it", c.Promise)
	assert.Equal(t, []string{"busy parents"}, c.Audience)
	assert.Equal(t, []platform.Platform{platform.Instagram, platform.Twitter, platform.Pinterest}, c.SuggestedPlatforms)
	assert.Equal(t, Cadence{Days: 14, Posts: 10}, c.Cadence)
	assert.Equal(t, "awareness", c.Goal)
}

func TestNonObjectConceptsDegradeToDefaults(t *testing.T) {
	result := NormalizeConcepts(decode(t, `["a string", 7, null, {}]`))
	require.Len(t, result, 4)
	assert.Equal(t, "Concept 2", result[1].Title)
	for _, c := range result {
		assert.NotNil(t, c.PostsByPlatform)
		assert.Empty(t, c.PostsByPlatform)
	}
}

func TestMediaGuideExtraction(t *testing.T) {
	raw := `[{
		"posts_by_platform": {
			"tiktok": [{
				"hook": "watch this",
				"media_guide": {
					"idea": "day in the life",
					"video_beats": ["open on the workbench", "cut to the result"]
				}
			}]
		}
	}]`
	result := NormalizeConcepts(decode(t, raw))
	posts := result[0].PostsByPlatform[platform.TikTok]
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].MediaGuide)
	assert.Equal(t, "day in the life", posts[0].MediaGuide.Idea)
	assert.Len(t, posts[0].MediaGuide.VideoBeats, 2)
}
