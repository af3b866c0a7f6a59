package handler

import (
	"net/http"

	"github.com/civicfix/civicback/middleware"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listNotifications(c *gin.Context) {
	list, err := h.Notifications.List(c.Request.Context(), principal(c), c.Query("status"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	n, err := h.Notifications.MarkRead(c.Request.Context(), principal(c), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
