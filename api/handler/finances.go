package handler

import (
	"net/http"

	"github.com/civicfix/civicback/middleware"
	"github.com/civicfix/civicback/services/finance"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listFinances(c *gin.Context) {
	list, err := h.Finances.List(c.Request.Context(),
		c.Param("entityType"), c.Param("entityId"), c.Query("startYear"), c.Query("endYear"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) upsertFinance(c *gin.Context) {
	var req finance.UpsertRequest
	if !bindJSON(c, &req) {
		return
	}
	f, err := h.Finances.Upsert(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) deleteFinance(c *gin.Context) {
	err := h.Finances.Delete(c.Request.Context(), c.Param("entityType"), c.Param("entityId"), c.Param("year"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "financial data deleted successfully"})
}
