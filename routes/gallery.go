package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clubapi/models"
)

type galleryImageRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"required"`
	Caption  string `json:"caption"`
	Category string `json:"category"`
}

// GET /api/gallery
func (d *deps) listGalleryImages(c *gin.Context) {
	images, err := d.Gallery.GetAll()
	if err != nil {
		internalError(c, err, "Failed to fetch gallery images.")
		return
	}
	if images == nil {
		images = []models.GalleryImage{}
	}
	c.JSON(http.StatusOK, images)
}

// GET /api/gallery/:id
func (d *deps) getGalleryImage(c *gin.Context) {
	img, err := d.Gallery.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Gallery image not found."})
			return
		}
		internalError(c, err, "Failed to fetch gallery image.")
		return
	}
	c.JSON(http.StatusOK, img)
}

// POST /api/gallery (admin)
func (d *deps) createGalleryImage(c *gin.Context) {
	var req galleryImageRequest
	if !bindJSON(c, &req) {
		return
	}

	img := models.GalleryImage{
		ID:         uuid.NewString(),
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		Caption:    req.Caption,
		Category:   req.Category,
		UploadedAt: time.Now().UTC(),
	}
	if err := d.Gallery.Create(&img); err != nil {
		internalError(c, err, "Failed to create gallery image.")
		return
	}

	d.inv.Purge(c, "gallery")
	c.JSON(http.StatusCreated, img)
}

// PUT /api/gallery/:id (admin)
func (d *deps) updateGalleryImage(c *gin.Context) {
	id := c.Param("id")

	old, err := d.Gallery.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Gallery image not found."})
			return
		}
		internalError(c, err, "Failed to fetch gallery image.")
		return
	}

	var req galleryImageRequest
	if !bindJSON(c, &req) {
		return
	}

	img := models.GalleryImage{
		ID:         id,
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		Caption:    req.Caption,
		Category:   req.Category,
		UploadedAt: old.UploadedAt,
	}
	if err := d.Gallery.Update(&img); err != nil {
		internalError(c, err, "Failed to update gallery image.")
		return
	}

	d.inv.Purge(c, "gallery")
	c.JSON(http.StatusOK, img)
}

// DELETE /api/gallery/:id (admin)
func (d *deps) deleteGalleryImage(c *gin.Context) {
	if err := d.Gallery.Delete(c.Param("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Gallery image not found."})
			return
		}
		internalError(c, err, "Failed to delete gallery image.")
		return
	}

	d.inv.Purge(c, "gallery")
	c.Status(http.StatusNoContent)
}
