package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gatherhq/gatherspace/internal/middleware"
	"github.com/gatherhq/gatherspace/internal/models"
	"github.com/gatherhq/gatherspace/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Descriptor configures a Resource for one entity kind.
type Descriptor struct {
	Name      string             // singular name used in log fields and messages
	Preloads  []string           // read-side eager loads
	Protected []string           // columns an update merge never touches
	Upsert    *clause.OnConflict // optional conflict clause applied on create
}

// Resource is the generic CRUD engine. One instance per entity kind serves
// list/get/create/update/delete with ownership-based authorization; entity
// kinds implementing models.Owned get their owner field forced on create and
// checked on mutation, kinds without an owner are admin-mutate-only.
type Resource[T any] struct {
	db   *gorm.DB
	desc Descriptor
}

func NewResource[T any](db *gorm.DB, desc Descriptor) *Resource[T] {
	return &Resource[T]{db: db, desc: desc}
}

// Register mounts the five CRUD routes on a router group.
func (r *Resource[T]) Register(rg *gin.RouterGroup) {
	rg.GET("", r.List)
	rg.POST("", r.Create)
	rg.GET("/:id", r.Get)
	rg.PUT("/:id", r.Update)
	rg.DELETE("/:id", r.Delete)
}

// List returns the entire collection to any authenticated caller.
func (r *Resource[T]) List(c *gin.Context) {
	var items []T
	if err := r.query().Find(&items).Error; err != nil {
		r.storeError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func (r *Resource[T]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var item T
	if err := r.query().Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.notFound(c)
			return
		}
		r.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create inserts a new entity. When the kind carries an owner field, the field
// is forcibly set to the caller's id, overriding any payload-supplied value.
func (r *Resource[T]) Create(c *gin.Context) {
	item := new(T)
	if err := c.ShouldBindJSON(item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	callerID, _, _ := middleware.Identity(c)
	if owned, ok := any(item).(models.Owned); ok {
		owned.SetOwnerID(callerID)
	}

	tx := r.db.Omit(clause.Associations)
	if r.desc.Upsert != nil {
		tx = tx.Clauses(*r.desc.Upsert)
	}
	if err := tx.Create(item).Error; err != nil {
		r.storeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Update loads the entity, applies the ownership check and shallow-merges the
// payload over the stored row: absent or zero-valued payload fields leave the
// existing values unchanged.
func (r *Resource[T]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var existing T
	if err := r.db.Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.notFound(c)
			return
		}
		r.storeError(c, err)
		return
	}

	if !r.authorizeMutation(c, &existing, "update") {
		return
	}

	payload := new(T)
	if err := c.ShouldBindJSON(payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	// An empty payload is a no-op rather than an empty UPDATE.
	if !reflect.DeepEqual(*payload, *new(T)) {
		omit := append([]string{"id", "created_at", clause.Associations}, r.desc.Protected...)
		if err := r.db.Model(&existing).Omit(omit...).Updates(payload).Error; err != nil {
			r.storeError(c, err)
			return
		}
		if err := r.db.Where("id = ?", id).First(&existing).Error; err != nil {
			r.storeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, existing)
}

// Delete removes the entity permanently after the ownership check.
func (r *Resource[T]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var existing T
	if err := r.db.Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.notFound(c)
			return
		}
		r.storeError(c, err)
		return
	}

	if !r.authorizeMutation(c, &existing, "delete") {
		return
	}

	if err := r.db.Delete(&existing).Error; err != nil {
		r.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s deleted successfully.", r.desc.Name)})
}

// authorizeMutation permits a mutation iff the caller owns the entity or is an
// admin. Entity kinds without an owner field are admin-only.
func (r *Resource[T]) authorizeMutation(c *gin.Context, item *T, action string) bool {
	callerID, role, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "User role not found, authorization denied."})
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	if owned, isOwned := any(item).(models.Owned); isOwned && owned.OwnerID() == callerID {
		return true
	}

	c.JSON(http.StatusForbidden, gin.H{
		"message": fmt.Sprintf("Unauthorized to %s this %s.", action, r.desc.Name),
	})
	return false
}

func (r *Resource[T]) query() *gorm.DB {
	q := r.db
	for _, preload := range r.desc.Preloads {
		q = q.Preload(preload)
	}
	return q
}

func (r *Resource[T]) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("%s not found.", r.desc.Name)})
}

// storeError maps store failures onto the error taxonomy: domain validation
// and constraint violations surface as 400, anything else is an unexpected 500.
func (r *Resource[T]) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("%s already exists.", r.desc.Name)})
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("%s references a missing entity.", r.desc.Name)})
	default:
		logger.Log.Error("Store operation failed",
			zap.String("entity", r.desc.Name),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
	}
}

// parseID reads the :id route parameter. Identifiers are opaque UUIDs; a
// malformed one can't match any row.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id."})
		return uuid.Nil, false
	}
	return id, true
}
