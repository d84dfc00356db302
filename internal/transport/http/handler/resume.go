package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"resumescout/internal/corpus"
	"resumescout/internal/transport/http/response"
)

type ResumeHandler struct {
	source *corpus.Dir
}

func NewResumeHandler(source *corpus.Dir) *ResumeHandler {
	return &ResumeHandler{source: source}
}

// View streams a resume PDF inline so search results can link
// straight to the underlying document.
func (h *ResumeHandler) View(c *gin.Context) {
	filename := strings.TrimSpace(c.Param("filename"))
	if filename == "" || filename != filepath.Base(filename) {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid filename")
		return
	}

	path := h.source.Path(filename)
	if _, err := os.Stat(path); err != nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "resume not found")
		return
	}

	c.Header("Content-Disposition", "inline; filename="+filename)
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
