package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/gatherhq/gatherspace/internal/auth"
	"github.com/gatherhq/gatherspace/internal/config"
	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Test signing secrets; distinct so access tokens never verify as refresh
// tokens and vice versa.
const (
	AccessSecret  = "test-access-secret"
	RefreshSecret = "test-refresh-secret"

	// Password given to every fixture user.
	Password = "Password123"
)

// SetupTestDB opens a fresh in-memory SQLite database and migrates the full
// schema. No database server required. Each call gets its own namespace, so
// suites are isolated from each other.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestConfig returns a config wired for handler tests: test secrets, minimum
// bcrypt cost and no external services.
func TestConfig() *config.Config {
	return &config.Config{
		ServerPort:       ":0",
		Environment:      "test",
		CORSOrigin:       "*",
		JWTAccessSecret:  AccessSecret,
		JWTRefreshSecret: RefreshSecret,
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  24 * time.Hour,
		BcryptCost:       bcrypt.MinCost,
	}
}

// CreateUser inserts a user with the shared fixture password.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(Password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash fixture password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create fixture user: %v", err)
	}
	return user
}

// AccessToken mints a valid access token for a user.
func AccessToken(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := auth.GenerateToken(user.ID, user.Role, AccessSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return token
}

func CreateCommunity(t *testing.T, db *gorm.DB, creator *models.User, name string) *models.Community {
	t.Helper()

	community := &models.Community{
		Name:       name,
		CreatorID:  creator.ID,
		Visibility: models.VisibilityPublic,
	}
	if err := db.Create(community).Error; err != nil {
		t.Fatalf("Failed to create fixture community: %v", err)
	}
	return community
}

func CreateChannel(t *testing.T, db *gorm.DB, community *models.Community, creator *models.User, name string) *models.Channel {
	t.Helper()

	channel := &models.Channel{
		Name:        name,
		CommunityID: community.ID,
		CreatorID:   creator.ID,
	}
	if err := db.Create(channel).Error; err != nil {
		t.Fatalf("Failed to create fixture channel: %v", err)
	}
	return channel
}

func CreatePost(t *testing.T, db *gorm.DB, author *models.User, community *models.Community, title string) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:       title,
		Content:     "fixture content",
		UserID:      author.ID,
		CommunityID: community.ID,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create fixture post: %v", err)
	}
	return post
}
