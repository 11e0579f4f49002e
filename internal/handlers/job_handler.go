package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/talent-matcher/internal/models"
	"alfredoptarigan/talent-matcher/internal/services"
)

const (
	defaultSimilarLimit = 10
	maxSimilarLimit     = 100
)

type JobHandler struct {
	indexer   services.IndexerService
	validator *validator.Validate
}

func NewJobHandler(indexer services.IndexerService) *JobHandler {
	return &JobHandler{
		indexer:   indexer,
		validator: newValidator(),
	}
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request payload")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	job := &models.Job{
		ID:          req.JobID,
		Title:       req.Title,
		Description: req.Description,
	}

	dims, err := h.indexer.IndexJob(c.UserContext(), job)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.JobResponse{
		ID:            job.ID,
		Title:         job.Title,
		EmbeddingSize: dims,
	})
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	job, err := h.indexer.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(job)
}

// HandleSimilar handles GET /jobs/:id/similar
func (h *JobHandler) HandleSimilar(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultSimilarLimit)
	if limit <= 0 || limit > maxSimilarLimit {
		return badRequest(c, "limit must be between 1 and 100")
	}

	similar, err := h.indexer.SimilarCandidates(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"job_id":     c.Params("id"),
		"candidates": similar,
	})
}
