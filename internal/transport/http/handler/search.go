package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumescout/internal/app"
	"resumescout/internal/corpus"
	"resumescout/internal/repository"
	"resumescout/internal/search"
	"resumescout/internal/transport/http/middleware"
	"resumescout/internal/transport/http/response"
)

type SearchHandler struct {
	searchService *app.SearchService
	logRepo       *repository.SearchLogRepository
}

type SearchRequest struct {
	Query string `json:"query" binding:"required,max=512"`
}

func NewSearchHandler(searchService *app.SearchService, logRepo *repository.SearchLogRepository) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logRepo:       logRepo,
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	recruiterID, ok := middleware.RecruiterID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "recruiter not found in token")
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), recruiterID, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrEmptyQuery):
			response.Error(c, http.StatusBadRequest, response.CodeEmptyQuery, "query must not be empty")
		case errors.Is(err, corpus.ErrUnavailable):
			response.Error(c, http.StatusServiceUnavailable, response.CodeCorpusUnavailable, "resume corpus unavailable")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search failed")
		}
		return
	}

	response.OK(c, gin.H{
		"count":   len(results),
		"results": results,
	})
}

func (h *SearchHandler) History(c *gin.Context) {
	recruiterID, ok := middleware.RecruiterID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "recruiter not found in token")
		return
	}

	entries, err := h.logRepo.ListByRecruiterID(recruiterID, 50)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch search history failed")
		return
	}

	response.OK(c, gin.H{"history": entries})
}
