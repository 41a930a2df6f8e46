package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucasmdrs/warbound/internal/version"
)

// Version reports the build identity baked in at link time.
func (h *BattleHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	})
}
