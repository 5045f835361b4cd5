package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dp-wu/bookradar-backend/internal/services"
)

type JobsHandler struct {
	crawlService services.CrawlService
}

func NewJobsHandler(crawlService services.CrawlService) *JobsHandler {
	return &JobsHandler{crawlService: crawlService}
}

func (jh *JobsHandler) Status(c *gin.Context) {
	job, err := jh.crawlService.JobStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_job_id", err)
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	RespondOK(c, job)
}

func (jh *JobsHandler) EnqueueCrawl(c *gin.Context) {
	var req struct {
		SourceUserExternalID string `json:"source_user_external_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	job, err := jh.crawlService.EnqueueCrawl(c.Request.Context(), req.SourceUserExternalID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, gin.H{"job_id": job.ID, "status": job.Status})
}
