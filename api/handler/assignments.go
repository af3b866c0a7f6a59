package handler

import (
	"net/http"

	"github.com/civicfix/civicback/middleware"
	"github.com/civicfix/civicback/services/assignment"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listAssignments(c *gin.Context) {
	list, err := h.Assignments.ListAll(c.Request.Context(), principal(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) listAssignmentsByIssue(c *gin.Context) {
	issueID, ok := objectID(c, "issueId")
	if !ok {
		return
	}
	list, err := h.Assignments.ListByIssue(c.Request.Context(), principal(c), issueID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createAssignment(c *gin.Context) {
	var req assignment.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Assignments.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) completeByVolunteer(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var req assignment.CompleteRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Assignments.CompleteByVolunteer(c.Request.Context(), principal(c), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) confirmResolved(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	r, err := h.Assignments.ConfirmResolved(c.Request.Context(), principal(c), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report marked as resolved", "report": r})
}

func (h *Handler) updateAssignment(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var req assignment.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Assignments.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) deleteAssignment(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.Assignments.Delete(c.Request.Context(), principal(c), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "assignment deleted successfully"})
}
