package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meridaco/catalogbackend/models"
	"github.com/meridaco/catalogbackend/utils"
)

// respondError maps the catalog error taxonomy onto HTTP statuses. Anything
// untyped that still smells like a duplicate-key write is a conflict; the
// rest is a 500.
func respondError(c *gin.Context, err error) {
	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		return
	}

	var cf *models.ConflictError
	if errors.As(err, &cf) {
		c.JSON(http.StatusConflict, gin.H{"error": cf.Msg, "field": cf.Field})
		return
	}

	if utils.IsDuplicateKey(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "slug already exists", "field": "slug"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
