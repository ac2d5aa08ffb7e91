package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/participants", handler.ListLeagueParticipants)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/rankings", handler.GetRankings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/challenges", handler.ListChallengesByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/events", handler.StreamLeagueEvents)
	mux.HandleFunc("GET /v1/challenges/{challengeID}", handler.GetChallenge)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/challenges", RequireAuth(verifier, http.HandlerFunc(handler.CreateChallenge)))
	mux.Handle("POST /v1/challenges/{challengeID}/response", RequireAuth(verifier, http.HandlerFunc(handler.RespondToChallenge)))
	mux.Handle("POST /v1/challenges/{challengeID}/result", RequireAuth(verifier, http.HandlerFunc(handler.SubmitResult)))
	mux.Handle("POST /v1/challenges/{challengeID}/resolution", RequireAuth(verifier, http.HandlerFunc(handler.ResolveResult)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/recompute-rankings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecomputeRankings)))
}
