package handler

import (
	"errors"
	"net/http"

	"github.com/gatherhq/gatherspace/internal/middleware"
	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CommunityHandler layers community-specific rules on the generic contract:
// reads eager-load the creator's public identity and create defaults
// visibility to public. Update and delete come straight from the engine.
type CommunityHandler struct {
	*Resource[models.Community]
	db *gorm.DB
}

func NewCommunityHandler(db *gorm.DB) *CommunityHandler {
	return &CommunityHandler{
		Resource: NewResource[models.Community](db, Descriptor{
			Name:      "Community",
			Protected: []string{"creator_id"},
		}),
		db: db,
	}
}

type CreateCommunityRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Visibility  models.Visibility `json:"visibility"`
}

func (h *CommunityHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Resource.Update)
	rg.DELETE("/:id", h.Resource.Delete)
}

func (h *CommunityHandler) List(c *gin.Context) {
	var communities []models.Community
	if err := h.withCreator().Find(&communities).Error; err != nil {
		h.storeError(c, err)
		return
	}
	if communities == nil {
		communities = []models.Community{}
	}
	c.JSON(http.StatusOK, communities)
}

func (h *CommunityHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var community models.Community
	if err := h.withCreator().Where("id = ?", id).First(&community).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Community not found."})
			return
		}
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	callerID, _, _ := middleware.Identity(c)

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	community := models.Community{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   callerID,
		Visibility:  visibility,
	}
	if err := h.db.Create(&community).Error; err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, community)
}

func (h *CommunityHandler) withCreator() *gorm.DB {
	return h.db.Preload("Creator", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username", "email")
	})
}
