package handler

import (
	"net/http"
	"os"

	"phonics-audio/internal/service"
	"phonics-audio/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServeSound serves generated audio below the sounds root for preview.
func (h Handler) ServeSound(c *gin.Context) {
	requested := c.Param("filepath")
	localPath, err := service.ResolveSoundFile(h.OutputDir, requested)
	if err != nil {
		log.GetLogger().Warn("Rejected sound path", zap.String("path", requested), zap.Error(err))
		c.Status(http.StatusNotFound)
		return
	}

	info, err := os.Stat(localPath)
	if err != nil || info.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(localPath)
}
