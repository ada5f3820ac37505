package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Harsh-BH/fieldtools/internal/delivery/http/middleware"
	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/usecase"
)

// JobHandler handles HTTP requests for job records.
type JobHandler struct {
	svc    *usecase.JobService
	logger *zap.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(svc *usecase.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{svc: svc, logger: logger}
}

// statusFor maps a failed CreateResult to its HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindDuplicateID:
		return http.StatusConflict
	case domain.KindPersistence:
		return http.StatusServiceUnavailable
	case domain.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Create handles POST /api/v1/jobs
func (h *JobHandler) Create(c *gin.Context) {
	var raw domain.RawFields
	if err := c.ShouldBindJSON(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, middleware.BodyTooLarge(tooLarge.Limit))
			return
		}
		c.JSON(http.StatusBadRequest, domain.CreateResult{
			Saved: false,
			Error: &domain.ErrorDetail{
				Kind:    domain.KindValidation,
				Message: "invalid request body: " + err.Error(),
			},
		})
		return
	}

	res := h.svc.CreateJob(c.Request.Context(), raw)
	if !res.Saved {
		c.JSON(statusFor(res.Error.Kind), res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// List handles GET /api/v1/jobs
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.svc.ListJobs(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(domain.KindOf(err)), gin.H{"error": domain.DetailOf(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(jobs),
		"jobs":  jobs,
	})
}

// GetByID handles GET /api/v1/jobs/:id
func (h *JobHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	job, err := h.svc.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": domain.DetailOf(err)})
			return
		}
		h.logger.Error("Get job failed", zap.Error(err), zap.String("job_id", id))
		c.JSON(statusFor(domain.KindOf(err)), gin.H{"error": domain.DetailOf(err)})
		return
	}

	c.JSON(http.StatusOK, job)
}
