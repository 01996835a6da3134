package handlers

import (
	"fooddrop-api/apperr"
	"fooddrop-api/notifier"
	"fooddrop-api/sms"

	"github.com/gin-gonic/gin"
)

// Package-level collaborators, wired by main (and swapped out by tests).
var (
	SMS    sms.Sender
	Notify *notifier.Notifier
)

// respondError maps a taxonomy error onto its HTTP status.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}
