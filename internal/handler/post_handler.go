package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostHandler layers post-specific rules on the generic contract: reads
// eager-load the author, community and (optional) channel identities, and
// update distinguishes an omitted channel_id from an explicit null, which
// detaches the post from its channel.
type PostHandler struct {
	*Resource[models.Post]
	db *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{
		Resource: NewResource[models.Post](db, Descriptor{
			Name:      "Post",
			Protected: []string{"user_id"},
		}),
		db: db,
	}
}

func (h *PostHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Resource.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Resource.Delete)
}

func (h *PostHandler) List(c *gin.Context) {
	var posts []models.Post
	if err := h.withRelations().Find(&posts).Error; err != nil {
		h.storeError(c, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var post models.Post
	if err := h.withRelations().Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found."})
			return
		}
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update shallow-merges truthy payload fields like the generic engine, except
// for channel_id: `"channel_id": null` clears the channel, while leaving the
// key out keeps the current one.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var existing models.Post
	if err := h.db.Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found."})
			return
		}
		h.storeError(c, err)
		return
	}

	if !h.authorizeMutation(c, &existing, "update") {
		return
	}

	var payload models.Post
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	rawChannel, channelPresent := raw["channel_id"]
	clearChannel := channelPresent && bytes.Equal(bytes.TrimSpace(rawChannel), []byte("null"))

	if !reflect.DeepEqual(payload, models.Post{}) {
		omit := []string{"id", "created_at", "user_id", clause.Associations}
		if err := h.db.Model(&existing).Omit(omit...).Updates(&payload).Error; err != nil {
			h.storeError(c, err)
			return
		}
	}
	if clearChannel {
		if err := h.db.Model(&existing).Update("channel_id", nil).Error; err != nil {
			h.storeError(c, err)
			return
		}
	}

	if err := h.db.Where("id = ?", id).First(&existing).Error; err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

func (h *PostHandler) withRelations() *gorm.DB {
	return h.db.
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username")
		}).
		Preload("Community", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Preload("Channel", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		})
}
