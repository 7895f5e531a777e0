package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clubapi/models"
)

// GET /api/discussions：最新在前，附回覆數與作者顯示欄位
func (d *deps) listDiscussions(c *gin.Context) {
	discussions, err := d.Discussions.List()
	if err != nil {
		internalError(c, err, "Failed to fetch discussions.")
		return
	}
	if discussions == nil {
		discussions = []models.DiscussionSummary{}
	}
	c.JSON(http.StatusOK, discussions)
}

// GET /api/discussions/:id：討論 + 回覆（時間正序）
func (d *deps) getDiscussion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	discussion, err := d.Discussions.Get(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Discussion not found."})
			return
		}
		internalError(c, err, "Failed to fetch discussion.")
		return
	}
	c.JSON(http.StatusOK, discussion)
}

// POST /api/discussions（需登入）
func (d *deps) createDiscussion(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content" binding:"required"`
		ImageURL string `json:"imageUrl"`
	}
	if !bindJSON(c, &req) {
		return
	}

	discussion := models.Discussion{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		AuthorID: c.GetInt64("userId"),
	}
	if err := d.Discussions.Create(&discussion); err != nil {
		internalError(c, err, "Failed to create discussion.")
		return
	}

	d.inv.Purge(c, "discussions")
	c.JSON(http.StatusCreated, discussion)
}

// POST /api/discussions/:id/replies（需登入）
func (d *deps) createReply(c *gin.Context) {
	discussionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content  string `json:"content" binding:"required"`
		ImageURL string `json:"imageUrl"`
	}
	if !bindJSON(c, &req) {
		return
	}

	reply := models.DiscussionReply{
		DiscussionID: discussionID,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		AuthorID:     c.GetInt64("userId"),
	}
	if err := d.Discussions.CreateReply(&reply); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Discussion not found."})
			return
		}
		internalError(c, err, "Failed to create reply.")
		return
	}

	d.inv.Purge(c, "discussions")
	c.JSON(http.StatusCreated, reply)
}

// DELETE /api/discussions/:id (admin)：回覆 cascade 一起刪
func (d *deps) deleteDiscussion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := d.Discussions.Delete(id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Discussion not found."})
			return
		}
		internalError(c, err, "Failed to delete discussion.")
		return
	}

	d.inv.Purge(c, "discussions")
	c.Status(http.StatusNoContent)
}

// DELETE /api/discussions/:id/replies/:replyId (admin)
func (d *deps) deleteReply(c *gin.Context) {
	discussionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	replyID, ok := idParam(c, "replyId")
	if !ok {
		return
	}

	if err := d.Discussions.DeleteReply(discussionID, replyID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Reply not found."})
		case errors.Is(err, models.ErrReplyMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Reply does not belong to this discussion."})
		default:
			internalError(c, err, "Failed to delete reply.")
		}
		return
	}

	d.inv.Purge(c, "discussions")
	c.Status(http.StatusNoContent)
}
