package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/talent-matcher/internal/middleware"
	"alfredoptarigan/talent-matcher/internal/models"
	"alfredoptarigan/talent-matcher/internal/services"
)

type MatchHandler struct {
	matchService services.MatchService
	worker       services.Worker
	validator    *validator.Validate
}

func NewMatchHandler(matchService services.MatchService, worker services.Worker) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		worker:       worker,
		validator:    newValidator(),
	}
}

// parse returns the decoded body, or a non-empty message describing why it is invalid.
func (h *MatchHandler) parse(c *fiber.Ctx) (models.MatchRequest, string) {
	var req models.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return req, "invalid request payload"
	}

	if err := h.validator.Struct(req); err != nil {
		return req, validationMessage(err)
	}

	return req, ""
}

// HandleMatch handles POST /match
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	req, msg := h.parse(c)
	if msg != "" {
		return badRequest(c, msg)
	}

	resp, err := h.matchService.Match(c.UserContext(), req.ToMatching())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(resp)
}

// HandleMatchAsync handles POST /match/async
func (h *MatchHandler) HandleMatchAsync(c *fiber.Ctx) error {
	req, msg := h.parse(c)
	if msg != "" {
		return badRequest(c, msg)
	}

	run, err := h.matchService.Enqueue(c.UserContext(), req.ToMatching(), middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	h.worker.EnqueueRun(run.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.MatchRunResponse{
		ID:     run.ID.String(),
		Status: string(run.Status),
	})
}
