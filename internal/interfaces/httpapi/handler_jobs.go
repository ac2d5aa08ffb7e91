package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/usecase"
	"go.opentelemetry.io/otel/trace"
)

// RecomputeRankings rebuilds one league table when league_id is given,
// otherwise every league.
func (h *Handler) RecomputeRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RecomputeRankings")
	defer span.End()

	var req recomputeRankingsRequest
	if err := h.decodeAndValidate(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	traceID, _ := traceMetaFromContext(ctx)
	leagueID := strings.TrimSpace(req.LeagueID)
	if leagueID != "" {
		table, err := h.rankingService.Recompute(ctx, leagueID)
		if err != nil {
			h.logger.WarnContext(ctx, "recompute rankings job failed", "league_id", leagueID, "trace_id", traceID, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, usecase.RecomputeAllResult{
			Total:     1,
			Succeeded: 1,
			Leagues: []usecase.RecomputeLeagueResult{
				{LeagueID: leagueID, Participants: len(table), Status: "success"},
			},
		})
		return
	}

	result, err := h.rankingService.RecomputeAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute all rankings job failed", "trace_id", traceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
