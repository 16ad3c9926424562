// Seeds a demo business with products, a few carts, and sample concepts so
// the shopfront and dashboard have something to show during development.
//
// Usage: go run ./scripts/seed-demo [db-path]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/minutelaunch/minutelaunch/internal/platform"
	"github.com/minutelaunch/minutelaunch/storage"
	"github.com/minutelaunch/minutelaunch/storage/db"
	"github.com/oklog/ulid/v2"
)

const (
	numProducts     = 12
	numConcepts     = 3
	postsPerConcept = 4
)

func main() {
	dbPath := "./db/minutelaunch.db"
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	queries := store.Queries

	businessID := uuid.New().String()
	name := gofakeit.Company()
	err = queries.CreateBusiness(ctx, db.CreateBusinessParams{
		ID:      businessID,
		Name:    name,
		Slug:    "demo-shop",
		Tagline: gofakeit.Slogan(),
		Bio:     gofakeit.Paragraph(1, 3, 12, " "),
	})
	if err != nil {
		log.Fatalf("create business: %v", err)
	}
	fmt.Printf("created business %q (%s) at /api/shops/demo-shop\n", name, businessID)

	for i := 0; i < numProducts; i++ {
		err := queries.CreateProduct(ctx, db.CreateProductParams{
			ID:          uuid.New().String(),
			BusinessID:  businessID,
			Name:        gofakeit.ProductName(),
			Description: gofakeit.ProductDescription(),
			PriceCents:  int64(rand.Intn(9000) + 500),
		})
		if err != nil {
			log.Fatalf("create product: %v", err)
		}
	}
	fmt.Printf("created %d products\n", numProducts)

	for i := 0; i < numConcepts; i++ {
		conceptID := uuid.New().String()
		keyMessages, _ := json.Marshal([]string{gofakeit.Phrase(), gofakeit.Phrase()})
		platforms, _ := json.Marshal([]string{"instagram", "tiktok"})
		audience, _ := json.Marshal([]string{gofakeit.JobTitle()})

		err := queries.CreateConcept(ctx, db.CreateConceptParams{
			ID:                 conceptID,
			BusinessID:         businessID,
			Kind:               "campaign",
			Title:              gofakeit.Sentence(4),
			Promise:            gofakeit.Sentence(8),
			CadenceDays:        7,
			CadencePosts:       5,
			KeyMessages:        string(keyMessages),
			SuggestedPlatforms: string(platforms),
			Audience:           string(audience),
		})
		if err != nil {
			log.Fatalf("create concept: %v", err)
		}

		for j := 0; j < postsPerConcept; j++ {
			plat := platform.All[rand.Intn(len(platform.All))]
			hashtags, _ := json.Marshal([]string{gofakeit.BuzzWord(), gofakeit.BuzzWord()})
			err := queries.CreateConceptPost(ctx, db.CreateConceptPostParams{
				ID:        ulid.Make().String(),
				ConceptID: conceptID,
				Platform:  string(plat),
				Hook:      gofakeit.Sentence(6),
				Caption:   gofakeit.Paragraph(1, 2, 10, " "),
				Hashtags:  string(hashtags),
			})
			if err != nil {
				log.Fatalf("create concept post: %v", err)
			}
		}
	}
	fmt.Printf("created %d concepts with %d posts each\n", numConcepts, postsPerConcept)
}
