package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/talent-matcher/internal/models"
	"alfredoptarigan/talent-matcher/internal/services"
)

type ResultHandler struct {
	matchService services.MatchService
}

func NewResultHandler(matchService services.MatchService) *ResultHandler {
	return &ResultHandler{
		matchService: matchService,
	}
}

// HandleGetResult handles GET /match/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid match run ID format")
	}

	run, err := h.matchService.GetRun(c.UserContext(), runID)
	if err != nil {
		return errorResponse(c, err)
	}

	response := models.ResultResponse{
		ID:     run.ID.String(),
		Status: string(run.Status),
	}

	switch run.Status {
	case models.StatusCompleted:
		response.Result = run.Result
	case models.StatusFailed:
		response.ErrorCode = run.ErrorCode
		response.ErrorMessage = run.ErrorMessage
	}

	return c.JSON(response)
}
