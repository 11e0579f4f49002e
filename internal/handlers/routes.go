package handlers

import "github.com/gofiber/fiber/v2"

type Handlers struct {
	Candidates *CandidateHandler
	Jobs       *JobHandler
	Match      *MatchHandler
	Results    *ResultHandler
}

// Register mounts every authenticated endpoint on api.
func Register(api fiber.Router, h Handlers, auth fiber.Handler) {
	api.Post("/candidates", auth, h.Candidates.HandleUpload)
	api.Get("/candidates/:id", auth, h.Candidates.HandleGet)
	api.Delete("/candidates/:id", auth, h.Candidates.HandleDelete)

	api.Post("/jobs", auth, h.Jobs.HandleCreate)
	api.Get("/jobs/:id", auth, h.Jobs.HandleGet)
	api.Get("/jobs/:id/similar", auth, h.Jobs.HandleSimilar)

	api.Post("/match", auth, h.Match.HandleMatch)
	api.Post("/match/async", auth, h.Match.HandleMatchAsync)
	api.Get("/match/:id", auth, h.Results.HandleGetResult)
}
