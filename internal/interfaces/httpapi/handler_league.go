package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/usecase"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListLeagueParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListLeagueParticipants")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	participants, err := h.leagueService.ListParticipants(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list league participants failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]participantDTO, 0, len(participants))
	for _, p := range participants {
		items = append(items, participantToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetRankings")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	table, err := h.rankingService.GetRankings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get rankings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankingsToDTO(leagueID, table))
}

// StreamLeagueEvents upgrades to a websocket carrying the league's
// committed domain events.
func (h *Handler) StreamLeagueEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "StreamLeagueEvents")
	defer span.End()

	if h.streamer == nil {
		writeError(ctx, w, fmt.Errorf("%w: event stream is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	if _, err := h.leagueService.GetLeague(ctx, leagueID); err != nil {
		writeError(ctx, w, err)
		return
	}

	// The upgrader has already answered the request when this fails.
	if err := h.streamer.ServeLeague(w, r.WithContext(ctx), leagueID); err != nil {
		h.logger.WarnContext(ctx, "open league event stream failed", "league_id", leagueID, "error", err)
	}
}
