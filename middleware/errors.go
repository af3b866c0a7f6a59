package middleware

import (
	"errors"
	"net/http"

	"github.com/civicfix/civicback/services/apperr"
	"github.com/gin-gonic/gin"
)

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes err as a JSON error body. Internal causes are
// attached to the gin context for the access log and never sent.
func AbortWithError(c *gin.Context, err error) {
	var aerr *apperr.Error
	if !errors.As(err, &aerr) {
		aerr = apperr.Internal("internal server error", err)
	}

	status := StatusFor(aerr.Kind)
	body := gin.H{"error": aerr.Message, "kind": aerr.Kind}
	if len(aerr.Fields) > 0 {
		body["fields"] = aerr.Fields
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		body["error"] = "internal server error"
	}
	c.AbortWithStatusJSON(status, body)
}
