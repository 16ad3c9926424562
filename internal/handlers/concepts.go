package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minutelaunch/minutelaunch/internal/ai"
	"github.com/minutelaunch/minutelaunch/internal/concepts"
	"github.com/minutelaunch/minutelaunch/internal/platform"
	"github.com/minutelaunch/minutelaunch/internal/social"
	"github.com/oklog/ulid/v2"

	"github.com/minutelaunch/minutelaunch/storage/db"
)

type ConceptsHandler struct {
	queries *db.Queries
	client  *ai.Client
}

func NewConceptsHandler(queries *db.Queries, client *ai.Client) *ConceptsHandler {
	return &ConceptsHandler{queries: queries, client: client}
}

const conceptSystemPrompt = `You are a social media strategist for small businesses.
Respond with a JSON array of campaign concepts and nothing else. Each concept has:
"title", "promise", "cadence" {"days", "posts"}, "key_messages" (array),
"suggested_platforms" (array), "audience" (array), and "posts_by_platform":
an object keyed by platform name whose values are arrays of posts with
"hook", "caption", "hashtags" (array), and optional "media_guide".`

type GenerateConceptsRequest struct {
	BusinessID string   `json:"business_id"`
	Brief      string   `json:"brief"`
	Platforms  []string `json:"platforms,omitempty"`
}

// HandleGenerateConcepts asks the AI gateway for campaign concepts,
// normalizes whatever shape comes back, stores the results, and returns
// them. Concepts that yield zero posts are flagged, not failed.
func (h *ConceptsHandler) HandleGenerateConcepts(c echo.Context) error {
	ctx := c.Request().Context()

	var req GenerateConceptsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.BusinessID == "" || req.Brief == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "business_id and brief are required")
	}

	prompt := req.Brief
	if len(req.Platforms) > 0 {
		normalized := make([]string, 0, len(req.Platforms))
		for _, p := range req.Platforms {
			normalized = append(normalized, string(platform.Normalize(p)))
		}
		prompt = fmt.Sprintf("%s\n\nTarget platforms: %v", req.Brief, normalized)
	}

	content, err := h.client.Generate(ctx, conceptSystemPrompt, prompt)
	if err != nil {
		slog.Error("concept generation failed", "error", err, "business_id", req.BusinessID)
		return echo.NewHTTPError(http.StatusBadGateway, "concept generation failed")
	}

	raw, err := ai.ExtractJSONArray(content)
	if err != nil {
		slog.Error("concept output unparseable", "error", err, "business_id", req.BusinessID)
		return echo.NewHTTPError(http.StatusBadGateway, "concept generation returned no usable output")
	}

	normalized := concepts.NormalizeConcepts(raw)

	for _, concept := range normalized {
		if err := h.saveConcept(ctx, req.BusinessID, concept); err != nil {
			slog.Error("failed to save concept", "error", err, "concept_id", concept.ID)
			continue
		}
		// Observability only: a zero-post concept is still returned so the
		// UI can offer "try different platforms or regenerate".
		if total := concepts.TotalPosts(concept); total == 0 {
			slog.Warn("concept has no extractable posts",
				"concept_id", concept.ID,
				"title", concept.Title,
				"business_id", req.BusinessID,
			)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"concepts": normalized,
	})
}

func (h *ConceptsHandler) saveConcept(ctx context.Context, businessID string, concept concepts.Concept) error {
	keyMessages, _ := json.Marshal(concept.KeyMessages)
	suggested, _ := json.Marshal(concept.SuggestedPlatforms)
	audience, _ := json.Marshal(concept.Audience)

	err := h.queries.CreateConcept(ctx, db.CreateConceptParams{
		ID:                 concept.ID,
		BusinessID:         businessID,
		Kind:               "campaign",
		Title:              concept.Title,
		Promise:            concept.Promise,
		Goal:               concept.Goal,
		CadenceDays:        int64(concept.Cadence.Days),
		CadencePosts:       int64(concept.Cadence.Posts),
		KeyMessages:        string(keyMessages),
		SuggestedPlatforms: string(suggested),
		Audience:           string(audience),
	})
	if err != nil {
		return fmt.Errorf("create concept: %w", err)
	}

	for plat, posts := range concept.PostsByPlatform {
		if !platform.IsCanonical(plat) {
			// Stored as-is; the share-link builder falls back to a copy
			// action for platforms it has no intent URL for.
			slog.Debug("storing posts for unrecognized platform", "platform", string(plat), "concept_id", concept.ID)
		}
		for _, post := range posts {
			hashtags, _ := json.Marshal(post.Hashtags)

			var mediaGuide sql.NullString
			if post.MediaGuide != nil {
				if encoded, err := json.Marshal(post.MediaGuide); err == nil {
					mediaGuide = sql.NullString{String: string(encoded), Valid: true}
				}
			}

			err := h.queries.CreateConceptPost(ctx, db.CreateConceptPostParams{
				ID:         ulid.Make().String(),
				ConceptID:  concept.ID,
				Platform:   string(plat),
				Hook:       post.Hook,
				Caption:    post.Caption,
				Hashtags:   string(hashtags),
				MediaGuide: mediaGuide,
			})
			if err != nil {
				return fmt.Errorf("create concept post: %w", err)
			}
		}
	}
	return nil
}

// HandleListConcepts returns a business's stored concepts with their posts
// and ready-to-use share links.
func (h *ConceptsHandler) HandleListConcepts(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := c.Param("businessId")

	rows, err := h.queries.ListConceptsByBusiness(ctx, businessID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load concepts")
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		posts, err := h.queries.ListConceptPosts(ctx, row.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load posts")
		}

		postViews := make([]map[string]any, 0, len(posts))
		for _, post := range posts {
			var hashtags []string
			_ = json.Unmarshal([]byte(post.Hashtags), &hashtags)

			text := social.ComposeText(post.Caption, hashtags)
			postViews = append(postViews, map[string]any{
				"id":        post.ID,
				"platform":  post.Platform,
				"hook":      post.Hook,
				"caption":   post.Caption,
				"hashtags":  hashtags,
				"status":    post.Status,
				"share_url": social.ShareURL(platform.Platform(post.Platform), "", text),
			})
		}

		out = append(out, map[string]any{
			"id":         row.ID,
			"title":      row.Title,
			"promise":    row.Promise,
			"goal":       row.Goal,
			"cadence":    map[string]int64{"days": row.CadenceDays, "posts": row.CadencePosts},
			"posts":      postViews,
			"post_count": len(postViews),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"concepts": out})
}
