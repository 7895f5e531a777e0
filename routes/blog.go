package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"clubapi/models"
)

type blogPostRequest struct {
	Title    string `json:"title" binding:"required"`
	Slug     string `json:"slug"` // 留空就從 title 產生
	Excerpt  string `json:"excerpt" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

// GET /api/blog
func (d *deps) listBlogPosts(c *gin.Context) {
	posts, err := d.Blog.GetAll()
	if err != nil {
		internalError(c, err, "Failed to fetch blog posts.")
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	c.JSON(http.StatusOK, posts)
}

// GET /api/blog/:id
func (d *deps) getBlogPost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := d.Blog.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog post not found."})
			return
		}
		internalError(c, err, "Failed to fetch blog post.")
		return
	}
	c.JSON(http.StatusOK, post)
}

// GET /api/blog/slug/:slug
func (d *deps) getBlogPostBySlug(c *gin.Context) {
	post, err := d.Blog.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog post not found."})
			return
		}
		internalError(c, err, "Failed to fetch blog post.")
		return
	}
	c.JSON(http.StatusOK, post)
}

// POST /api/blog (admin)
func (d *deps) createBlogPost(c *gin.Context) {
	var req blogPostRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Slug == "" {
		req.Slug = slug.Make(req.Title)
	}

	post := models.BlogPost{
		Title:    req.Title,
		Slug:     req.Slug,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Category: req.Category,
		ImageURL: req.ImageURL,
		AuthorID: c.GetInt64("userId"),
	}
	if err := d.Blog.Create(&post); err != nil {
		if errors.Is(err, models.ErrDuplicateSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "A post with this slug already exists."})
			return
		}
		internalError(c, err, "Failed to create blog post.")
		return
	}

	d.inv.Purge(c, "blog")
	c.JSON(http.StatusCreated, post)
}

// PUT /api/blog/:id (admin)
func (d *deps) updateBlogPost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req blogPostRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Slug == "" {
		req.Slug = slug.Make(req.Title)
	}

	post := models.BlogPost{
		ID:       id,
		Title:    req.Title,
		Slug:     req.Slug,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	if err := d.Blog.Update(&post); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog post not found."})
		case errors.Is(err, models.ErrDuplicateSlug):
			c.JSON(http.StatusBadRequest, gin.H{"message": "A post with this slug already exists."})
		default:
			internalError(c, err, "Failed to update blog post.")
		}
		return
	}

	d.inv.Purge(c, "blog")
	c.JSON(http.StatusOK, post)
}

// DELETE /api/blog/:id (admin)
func (d *deps) deleteBlogPost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := d.Blog.Delete(id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog post not found."})
			return
		}
		internalError(c, err, "Failed to delete blog post.")
		return
	}

	d.inv.Purge(c, "blog")
	c.Status(http.StatusNoContent)
}
