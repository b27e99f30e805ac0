package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(proposalHandler *ProposalHandler, voteHandler *VoteHandler, resolutionHandler *ResolutionHandler, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})

		r.Route("/clubs/{clubID}/proposals", func(r chi.Router) {
			r.Use(Authenticator(jwtSecret))

			r.Post("/", proposalHandler.CreateProposal)
			r.Get("/", proposalHandler.ListProposals)

			r.Route("/{proposalID}", func(r chi.Router) {
				r.Get("/", proposalHandler.GetProposal)
				r.Post("/votes", voteHandler.CastVote)
				r.Post("/close", resolutionHandler.CloseProposal)
				r.Post("/execute", resolutionHandler.ExecuteProposal)
				r.Post("/cancel", resolutionHandler.CancelProposal)
			})
		})
	})

	return r
}
