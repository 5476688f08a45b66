package handlers

import (
	"net/http"

	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FileHandler struct {
	fileService services.FileService
	logger      *zap.Logger
}

func NewFileHandler(fileService services.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{fileService: fileService, logger: logger}
}

func (h *FileHandler) List(c *gin.Context) {
	_, token, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	files, err := h.fileService.List(c.Request.Context(), token, c.Param("id"), models.Folder(c.Param("folder")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// Upload takes a multipart "file" field and answers with the refreshed
// folder listing.
func (h *FileHandler) Upload(c *gin.Context) {
	_, token, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	files, err := h.fileService.Upload(c.Request.Context(), token, c.Param("id"), models.Folder(c.Param("folder")),
		header.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"files": files})
}

func (h *FileHandler) Delete(c *gin.Context) {
	_, token, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	files, err := h.fileService.Delete(c.Request.Context(), token, c.Param("id"), models.Folder(c.Param("folder")), c.Param("name"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}
