package handler

import (
	"net/http"

	"github.com/civicfix/civicback/middleware"
	"github.com/civicfix/civicback/services/report"
	"github.com/gin-gonic/gin"
)

func (h *Handler) createReport(c *gin.Context) {
	var req report.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Reports.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) listOwnReports(c *gin.Context) {
	list, err := h.Reports.ListOwn(c.Request.Context(), principal(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) listReports(c *gin.Context) {
	list, err := h.Reports.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getReport(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	r, err := h.Reports.Get(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) updateReport(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var req report.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Reports.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
