package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clubapi/models"
)

type eventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Time        string    `json:"time" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	ImageURL    string    `json:"imageUrl"`
}

// GET /api/events
func (d *deps) listEvents(c *gin.Context) {
	events, err := d.Events.GetAll()
	if err != nil {
		internalError(c, err, "Failed to fetch events.")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, events)
}

// GET /api/events/:id
func (d *deps) getEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	event, err := d.Events.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
			return
		}
		internalError(c, err, "Failed to fetch event.")
		return
	}
	c.JSON(http.StatusOK, event)
}

// POST /api/events (admin)
func (d *deps) createEvent(c *gin.Context) {
	var req eventRequest
	if !bindJSON(c, &req) {
		return
	}

	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	if err := d.Events.Create(&event); err != nil {
		internalError(c, err, "Failed to create event.")
		return
	}

	d.inv.Purge(c, "events")
	c.JSON(http.StatusCreated, event)
}

// PUT /api/events/:id (admin)
func (d *deps) updateEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if !bindJSON(c, &req) {
		return
	}

	event := models.Event{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	if err := d.Events.Update(&event); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
			return
		}
		internalError(c, err, "Failed to update event.")
		return
	}

	d.inv.Purge(c, "events")
	c.JSON(http.StatusOK, event)
}

// DELETE /api/events/:id (admin)：報名紀錄 cascade 一起刪
func (d *deps) deleteEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := d.Events.Delete(id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
			return
		}
		internalError(c, err, "Failed to delete event.")
		return
	}

	d.inv.Purge(c, "events")
	c.Status(http.StatusNoContent)
}

/* --------------- Registrations ------------------ */

// POST /api/events/:id/register
// 重複報名靠 UNIQUE constraint 擋；每次異動後回權威人數讓 UI 校正
func (d *deps) registerForEvent(c *gin.Context) {
	eventID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt64("userId")

	if err := d.Regs.Register(eventID, userID); err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyRegistered):
			c.JSON(http.StatusBadRequest, gin.H{"message": "You are already registered for this event."})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found."})
		default:
			internalError(c, err, "Failed to register for event.")
		}
		return
	}

	count, err := d.Regs.Count(eventID)
	if err != nil {
		internalError(c, err, "Failed to fetch attendee count.")
		return
	}

	d.inv.Purge(c, "events") // 列表顯示的人數變了
	c.JSON(http.StatusOK, gin.H{"message": "Registered for event.", "attendeeCount": count})
}

// DELETE /api/events/:id/register（冪等）
func (d *deps) unregisterFromEvent(c *gin.Context) {
	eventID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt64("userId")

	if err := d.Regs.Cancel(eventID, userID); err != nil {
		internalError(c, err, "Failed to cancel registration.")
		return
	}

	count, err := d.Regs.Count(eventID)
	if err != nil {
		internalError(c, err, "Failed to fetch attendee count.")
		return
	}

	d.inv.Purge(c, "events")
	c.JSON(http.StatusOK, gin.H{"message": "Registration cancelled.", "attendeeCount": count})
}

// GET /api/events/:id/registration-status
func (d *deps) registrationStatus(c *gin.Context) {
	eventID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt64("userId")

	registered, err := d.Regs.IsRegistered(eventID, userID)
	if err != nil {
		internalError(c, err, "Failed to fetch registration status.")
		return
	}
	count, err := d.Regs.Count(eventID)
	if err != nil {
		internalError(c, err, "Failed to fetch attendee count.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"isRegistered": registered, "attendeeCount": count})
}
