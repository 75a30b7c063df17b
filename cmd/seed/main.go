package main

import (
	"log"
	"os"
	"time"

	"github.com/gatherhq/gatherspace/internal/auth"
	"github.com/gatherhq/gatherspace/internal/config"
	"github.com/gatherhq/gatherspace/internal/database"
	"github.com/gatherhq/gatherspace/internal/models"
)

// Seeds a development database with an admin account and a small sample
// community so the API is explorable right after startup.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	var admin models.User
	if err := db.Where("email = ?", adminEmail).First(&admin).Error; err == nil {
		log.Println("Admin user already exists:", admin.Username)
		return
	}

	hash, err := auth.HashPassword(adminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}
	log.Println("Admin user created:", admin.Username)

	community := models.Community{
		Name:        "General",
		Description: "The default community.",
		CreatorID:   admin.ID,
		Visibility:  models.VisibilityPublic,
	}
	if err := db.Create(&community).Error; err != nil {
		log.Println("Skipping sample community:", err)
		return
	}

	channel := models.Channel{
		Name:        "announcements",
		Description: "Official announcements.",
		CommunityID: community.ID,
		CreatorID:   admin.ID,
	}
	if err := db.Create(&channel).Error; err != nil {
		log.Println("Skipping sample channel:", err)
		return
	}

	post := models.Post{
		Title:       "Welcome!",
		Content:     "Say hello to your new community.",
		UserID:      admin.ID,
		CommunityID: community.ID,
		ChannelID:   &channel.ID,
	}
	if err := db.Create(&post).Error; err != nil {
		log.Println("Skipping sample post:", err)
		return
	}

	event := models.Event{
		Title:       "Kickoff",
		Description: "First community meetup.",
		StartTime:   time.Now().Add(7 * 24 * time.Hour),
		EndTime:     time.Now().Add(7*24*time.Hour + 2*time.Hour),
		Location:    "Online",
		CommunityID: community.ID,
		CreatorID:   admin.ID,
	}
	if err := db.Create(&event).Error; err != nil {
		log.Println("Skipping sample event:", err)
		return
	}

	log.Println("Sample data created")
}
