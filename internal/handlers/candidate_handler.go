package handlers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/talent-matcher/internal/models"
	"alfredoptarigan/talent-matcher/internal/services"
)

type uploadForm struct {
	CandidateID string `json:"candidate_id" validate:"required,max=128"`
	Name        string `json:"name" validate:"max=256"`
}

type CandidateHandler struct {
	indexer        services.IndexerService
	storageService services.StorageService
	validator      *validator.Validate
	maxFileSize    int64
}

func NewCandidateHandler(
	indexer services.IndexerService,
	storageService services.StorageService,
	maxFileSize int64,
) *CandidateHandler {
	return &CandidateHandler{
		indexer:        indexer,
		storageService: storageService,
		validator:      newValidator(),
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /candidates
func (h *CandidateHandler) HandleUpload(c *fiber.Ctx) error {
	form := uploadForm{
		CandidateID: strings.TrimSpace(c.FormValue("candidate_id")),
		Name:        strings.TrimSpace(c.FormValue("name")),
	}
	if err := h.validator.Struct(form); err != nil {
		return badRequest(c, validationMessage(err))
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "resume file is required")
	}

	if file.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	resume, err := h.storageService.SaveResume(file, form.CandidateID)
	if err != nil {
		return badRequest(c, fmt.Sprintf("failed to save resume: %v", err))
	}
	defer func() { _ = h.storageService.Discard(resume.StagedPath) }()

	candidate, err := h.indexer.IngestResume(c.UserContext(), services.ResumeInput{
		CandidateID: form.CandidateID,
		Name:        form.Name,
		Filename:    resume.Filename,
		FilePath:    resume.Path,
		StagedPath:  resume.StagedPath,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toCandidateResponse(candidate))
}

// HandleGet handles GET /candidates/:id
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	candidate, err := h.indexer.GetCandidate(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(toCandidateResponse(candidate))
}

// HandleDelete handles DELETE /candidates/:id
func (h *CandidateHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.indexer.DeleteCandidate(c.UserContext(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func toCandidateResponse(c *models.Candidate) models.CandidateResponse {
	return models.CandidateResponse{
		ID:              c.ID,
		Name:            c.Name,
		ResumeFilename:  c.ResumeFilename,
		ExtractedFields: c.ExtractedFields(),
	}
}
