package db

import (
	"context"
	"database/sql"
)

type CreateConceptParams struct {
	ID                 string
	BusinessID         string
	Kind               string
	Title              string
	Promise            string
	Goal               string
	CadenceDays        int64
	CadencePosts       int64
	KeyMessages        string
	SuggestedPlatforms string
	Audience           string
}

func (q *Queries) CreateConcept(ctx context.Context, arg CreateConceptParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO concepts (id, business_id, kind, title, promise, goal, cadence_days, cadence_posts, key_messages, suggested_platforms, audience)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.BusinessID, arg.Kind, arg.Title, arg.Promise, arg.Goal,
		arg.CadenceDays, arg.CadencePosts, arg.KeyMessages, arg.SuggestedPlatforms, arg.Audience,
	)
	return err
}

type CreateConceptPostParams struct {
	ID         string
	ConceptID  string
	Platform   string
	Hook       string
	Caption    string
	Hashtags   string
	MediaGuide sql.NullString
}

func (q *Queries) CreateConceptPost(ctx context.Context, arg CreateConceptPostParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO concept_posts (id, concept_id, platform, hook, caption, hashtags, media_guide)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.ConceptID, arg.Platform, arg.Hook, arg.Caption, arg.Hashtags, arg.MediaGuide,
	)
	return err
}

const conceptColumns = `id, business_id, kind, title, promise, goal, cadence_days, cadence_posts, key_messages, suggested_platforms, audience, created_at`

func (q *Queries) ListConceptsByBusiness(ctx context.Context, businessID string) ([]Concept, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+conceptColumns+` FROM concepts WHERE business_id = ? ORDER BY created_at DESC`, businessID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var concepts []Concept
	for rows.Next() {
		var c Concept
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.Kind, &c.Title, &c.Promise, &c.Goal,
			&c.CadenceDays, &c.CadencePosts, &c.KeyMessages, &c.SuggestedPlatforms, &c.Audience, &c.CreatedAt); err != nil {
			return nil, err
		}
		concepts = append(concepts, c)
	}
	return concepts, rows.Err()
}

func (q *Queries) ListConceptPosts(ctx context.Context, conceptID string) ([]ConceptPost, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, concept_id, platform, hook, caption, hashtags, media_guide, status, created_at
		FROM concept_posts WHERE concept_id = ? ORDER BY platform, created_at`, conceptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []ConceptPost
	for rows.Next() {
		var p ConceptPost
		if err := rows.Scan(&p.ID, &p.ConceptID, &p.Platform, &p.Hook, &p.Caption, &p.Hashtags, &p.MediaGuide, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
