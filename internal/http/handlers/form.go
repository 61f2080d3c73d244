package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/http/response"
)

// Form fields arrive as multipart or urlencoded bodies; gin reads both
// through PostForm.

// requireField writes a 400 envelope and returns false when field is blank.
func requireField(c *gin.Context, field string) (string, bool) {
	v := strings.TrimSpace(c.PostForm(field))
	if v == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_field", fmt.Errorf("%s is required", field))
		return "", false
	}
	return v, true
}

func optionalField(c *gin.Context, field, fallback string) string {
	if v := strings.TrimSpace(c.PostForm(field)); v != "" {
		return v
	}
	return fallback
}

// optionalInt returns nil for an absent field and writes a 400 for a
// malformed one.
func optionalInt(c *gin.Context, field string) (*int, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_field", fmt.Errorf("%s must be an integer", field))
		return nil, false
	}
	return &n, true
}

func boolField(c *gin.Context, field string, fallback bool) bool {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}
