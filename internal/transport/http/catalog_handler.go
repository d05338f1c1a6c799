package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waste3d/pianoplatform-api/internal/domain"
)

type CatalogHandler struct {
	catalog *domain.Catalog
}

func NewCatalogHandler(catalog *domain.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/v1/chords
func (h *CatalogHandler) ListChords(c *gin.Context) {
	category := domain.ChordCategory(c.Query("category"))
	c.JSON(http.StatusOK, gin.H{"chords": h.catalog.Chords(category)})
}

// GET /api/v1/chords/:tag
func (h *CatalogHandler) GetChord(c *gin.Context) {
	ch, ok := h.catalog.Chord(c.Param("tag"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chord not found"})
		return
	}
	c.JSON(http.StatusOK, ch)
}

// GET /api/v1/families
func (h *CatalogHandler) ListFamilies(c *gin.Context) {
	mode := domain.FamilyMode(c.Query("mode"))
	c.JSON(http.StatusOK, gin.H{"families": h.catalog.Families(mode)})
}

// GET /api/v1/families/:tag
func (h *CatalogHandler) GetFamily(c *gin.Context) {
	f, ok := h.catalog.Family(c.Param("tag"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
		return
	}
	c.JSON(http.StatusOK, f)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthz reports storage reachability.
func Healthz(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
