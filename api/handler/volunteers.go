package handler

import (
	"net/http"

	"github.com/civicfix/civicback/middleware"
	"github.com/civicfix/civicback/services/volunteer"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listVolunteers(c *gin.Context) {
	list, err := h.Volunteers.Find(c.Request.Context(), c.Query("category"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getVolunteer(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	v, err := h.Volunteers.Get(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) createVolunteer(c *gin.Context) {
	var req volunteer.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.Volunteers.Create(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *Handler) updateVolunteer(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var req volunteer.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.Volunteers.Update(c.Request.Context(), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) deleteVolunteer(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.Volunteers.Delete(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "volunteer deleted successfully"})
}
