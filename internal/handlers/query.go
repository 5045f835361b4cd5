package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/requestdata"
	"github.com/dp-wu/bookradar-backend/internal/services"
)

type QueryHandler struct {
	queryService services.QueryService
}

func NewQueryHandler(queryService services.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

func (qh *QueryHandler) Recommendations(c *gin.Context) {
	filter := repos.RecommendationFilter{
		TagName:            c.Query("tag"),
		SourceUserExternal: c.Query("source_user"),
		BookExternal:       c.Query("book"),
		Limit:              intQuery(c, "limit", 50),
		Offset:             intQuery(c, "offset", 0),
	}

	userID := uuid.Nil
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		userID = rd.UserID
	}

	recs, err := qh.queryService.Recommendations(c.Request.Context(), userID, filter)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recs})
}

func (qh *QueryHandler) Books(c *gin.Context) {
	books, err := qh.queryService.Books(c.Request.Context(), intQuery(c, "limit", 50), intQuery(c, "offset", 0))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	RespondOK(c, gin.H{"books": books})
}

func (qh *QueryHandler) Tags(c *gin.Context) {
	tags, err := qh.queryService.Tags(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	RespondOK(c, gin.H{"tags": tags})
}

func (qh *QueryHandler) History(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active identity"})
		return
	}
	rows, err := qh.queryService.History(c.Request.Context(), rd.UserID, intQuery(c, "limit", 50))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "query_failed", err)
		return
	}
	RespondOK(c, gin.H{"history": rows})
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
