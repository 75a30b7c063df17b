package router

import (
	"net/http"

	"github.com/gatherhq/gatherspace/internal/auth"
	"github.com/gatherhq/gatherspace/internal/config"
	"github.com/gatherhq/gatherspace/internal/handler"
	"github.com/gatherhq/gatherspace/internal/middleware"
	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/gatherhq/gatherspace/internal/repository"
	"github.com/gatherhq/gatherspace/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Deps carries everything the route table needs. Limiter may be nil (tests,
// deployments without redis).
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Limiter *middleware.RateLimiter
}

// Setup builds the full route table: auth routes, the specific user,
// community and post handlers, and one generic CRUD engine per remaining
// entity kind.
func Setup(deps Deps) *gin.Engine {
	cfg := deps.Config
	db := deps.DB

	r := gin.New()
	r.Use(middleware.Recovery(cfg.IsProduction()))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(corsConfig(cfg)))
	if deps.Limiter != nil {
		r.Use(deps.Limiter.Middleware())
	}

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, auth.TokenConfig{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}, cfg.BcryptCost)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userRepo, authService, cfg.BcryptCost)
	communityHandler := handler.NewCommunityHandler(db)
	postHandler := handler.NewPostHandler(db)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Gatherspace API!"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/refresh-token", authHandler.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg.JWTAccessSecret))

	users := protected.Group("/users")
	{
		adminOnly := middleware.RequireRoles(models.RoleAdmin)
		users.GET("", adminOnly, userHandler.List)
		users.POST("", adminOnly, userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", adminOnly, userHandler.Delete)
	}

	communityHandler.Register(protected.Group("/communities"))
	postHandler.Register(protected.Group("/posts"))

	// Remaining entity kinds are served uniformly by the generic engine.
	handler.NewResource[models.Role](db, handler.Descriptor{
		Name: "Role",
	}).Register(protected.Group("/roles"))

	handler.NewResource[models.Membership](db, handler.Descriptor{
		Name:      "Membership",
		Protected: []string{"user_id", "joined_at"},
	}).Register(protected.Group("/memberships"))

	handler.NewResource[models.Channel](db, handler.Descriptor{
		Name:      "Channel",
		Protected: []string{"creator_id"},
	}).Register(protected.Group("/channels"))

	handler.NewResource[models.Comment](db, handler.Descriptor{
		Name:      "Comment",
		Protected: []string{"user_id"},
	}).Register(protected.Group("/comments"))

	// Re-reacting to the same target overwrites the reaction type instead of
	// tripping the uniqueness constraint.
	handler.NewResource[models.Reaction](db, handler.Descriptor{
		Name:      "Reaction",
		Protected: []string{"user_id", "entity_type", "entity_id"},
		Upsert: &clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "entity_type"}, {Name: "entity_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"reaction_type"}),
		},
	}).Register(protected.Group("/reactions"))

	handler.NewResource[models.Event](db, handler.Descriptor{
		Name:      "Event",
		Protected: []string{"creator_id"},
	}).Register(protected.Group("/events"))

	handler.NewResource[models.EventAttendee](db, handler.Descriptor{
		Name:      "EventAttendee",
		Protected: []string{"user_id", "registered_at"},
	}).Register(protected.Group("/eventattendees"))

	handler.NewResource[models.DirectMessage](db, handler.Descriptor{
		Name:      "DirectMessage",
		Protected: []string{"sender_id", "sent_at"},
	}).Register(protected.Group("/directmessages"))

	handler.NewResource[models.Notification](db, handler.Descriptor{
		Name:      "Notification",
		Protected: []string{"user_id"},
	}).Register(protected.Group("/notifications"))

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if cfg.CORSOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSOrigin}
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowCredentials = cfg.CORSOrigin != "*"
	return corsCfg
}
