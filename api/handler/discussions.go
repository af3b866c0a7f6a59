package handler

import (
	"net/http"

	"github.com/civicfix/civicback/middleware"
	"github.com/civicfix/civicback/services/discussion"
	"github.com/civicfix/civicback/services/feedback"
	"github.com/gin-gonic/gin"
)

func (h *Handler) listDiscussions(c *gin.Context) {
	list, err := h.Discussions.List(c.Request.Context(),
		c.Query("category"), c.Query("search"), c.Query("tab"), c.Query("userId"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createDiscussion(c *gin.Context) {
	var req discussion.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.Discussions.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) likeDiscussion(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	d, err := h.Discussions.Like(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) bookmarkDiscussion(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	d, err := h.Discussions.ToggleBookmark(c.Request.Context(), principal(c), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) commentDiscussion(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var req discussion.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.Discussions.Comment(c.Request.Context(), principal(c), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) submitFeedback(c *gin.Context) {
	var req feedback.SubmitRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Feedback.Submit(c.Request.Context(), req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "feedback submitted successfully"})
}
