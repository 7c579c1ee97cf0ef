package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"mediavault/internal/config"
	"mediavault/internal/database"
	"mediavault/internal/domain"
	"mediavault/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM media_favorites")
	db.Exec("DELETE FROM contact_messages")
	db.Exec("DELETE FROM media_items")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := &domain.User{
		Name:         "Administrator",
		Email:        "admin@mediavault.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal("admin create failed:", err)
	}
	log.Println("Admin created: admin@mediavault.local / admin123")

	var members []*domain.User
	for i, email := range []string{"alice@example.com", "bob@example.com"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("user1234"), bcrypt.DefaultCost)
		u := &domain.User{
			Name:         fmt.Sprintf("User %d", i+1),
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
			IsActive:     true,
			IsVerified:   true,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("user create failed:", err)
		}
		members = append(members, u)
	}
	log.Printf("%d member accounts created (password: user1234)", len(members))

	// ================== MEDIA ==================
	log.Println("Creating sample media...")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal(err)
	}

	samples := []struct {
		owner    *domain.User
		title    string
		original string
		mime     string
		category domain.MediaCategory
		tags     []string
		shared   bool
	}{
		{members[0], "Holiday notes", "holiday-notes.txt", "text/plain", domain.CategoryDocuments, []string{"travel", "notes"}, false},
		{members[0], "Beach playlist", "beach-playlist.txt", "text/plain", domain.CategoryDocuments, []string{"music"}, true},
		{members[1], "Project readme", "README.txt", "text/plain", domain.CategoryDocuments, []string{"work"}, true},
	}

	now := time.Now()
	for _, s := range samples {
		storedName := uuid.NewString() + filepath.Ext(s.original)
		content := []byte("sample seeded content for " + s.title + "\n")
		if err := os.WriteFile(filepath.Join(cfg.UploadDir, storedName), content, 0o644); err != nil {
			log.Fatal(err)
		}

		item := &domain.MediaItem{
			UserID:       s.owner.ID,
			Title:        s.title,
			OriginalName: s.original,
			StoredName:   storedName,
			MimeType:     s.mime,
			Size:         int64(len(content)),
			Category:     s.category,
			Tags:         s.tags,
			IsShared:     s.shared,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := db.Create(item).Error; err != nil {
			log.Fatal("media create failed:", err)
		}
	}
	log.Printf("%d sample media items created", len(samples))

	log.Println("Seed complete")
}
