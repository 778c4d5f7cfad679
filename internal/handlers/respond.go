// Package handlers exposes the analyze, posts and health endpoints over gin.
package handlers

import (
	"github.com/gin-gonic/gin"
)

// respondError writes {"error": msg} and stops the handler chain.
func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
