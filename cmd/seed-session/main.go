package main

import (
	"context"
	"flag"
	"log"

	"selecionei-client/config"
	"selecionei-client/models"
	"selecionei-client/service"
	"selecionei-client/storage"
)

func main() {
	var (
		id      = flag.Int64("id", 7, "user id")
		name    = flag.String("name", "Test User", "user name")
		email   = flag.String("email", "test@example.com", "user email")
		company = flag.String("company", "", "company")
		plan    = flag.String("plan", string(models.PlanFree), "plan key")
		used    = flag.Int("used", 1, "analyses already used")
		limit   = flag.Int("limit", 5, "analyses allowed by the plan")
		reset   = flag.Bool("clear", false, "remove the saved session instead")
	)
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	store, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	sessions := service.NewSessionStore(store)

	if *reset {
		if err := sessions.Save(ctx, nil); err != nil {
			log.Fatalf("Failed to clear session: %v", err)
		}
		log.Println("✓ Session cleared")
		return
	}

	existing, err := sessions.Load(ctx)
	if err != nil {
		log.Printf("Warning: Existing session unreadable, overwriting: %v", err)
	} else if existing != nil {
		log.Printf("Replacing session of %s (ID: %d)", existing.Email, existing.ID)
	}

	identity := &models.Identity{
		ID:            *id,
		Name:          *name,
		Email:         *email,
		Company:       *company,
		Plan:          models.PlanKey(*plan),
		AnalysesUsed:  *used,
		AnalysesLimit: *limit,
	}
	if err := sessions.Save(ctx, identity); err != nil {
		log.Fatalf("Failed to save session: %v", err)
	}

	log.Printf("✓ Session saved for %s (ID: %d, %d/%d analyses, %s storage)",
		identity.Email, identity.ID, identity.AnalysesUsed, identity.AnalysesLimit, cfg.Storage.Type)
}
