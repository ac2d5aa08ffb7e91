package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CreateChallenge")
	defer span.End()

	actorID, err := actorFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createChallengeRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.challengeService.CreateChallenge(ctx, usecase.CreateChallengeInput{
		ActorID:      actorID,
		ChallengerID: req.ChallengerID,
		ChallengedID: req.ChallengedID,
		LeagueID:     req.LeagueID,
		Location:     req.Location,
		ProposedAt:   req.ProposedAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create challenge failed", "actor_id", actorID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, challengeToDTO(item))
}

func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetChallenge")
	defer span.End()

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := h.challengeService.GetChallenge(ctx, challengeID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(item))
}

func (h *Handler) ListChallengesByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListChallengesByLeague")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	filter, err := parseChallengeFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.challengeService.ListChallengesByLeague(ctx, leagueID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list challenges failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengesToDTO(items))
}

func (h *Handler) RespondToChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RespondToChallenge")
	defer span.End()

	actorID, err := actorFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req respondToChallengeRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := h.challengeService.RespondToChallenge(ctx, usecase.RespondToChallengeInput{
		ChallengeID:     challengeID,
		ActorID:         actorID,
		Accept:          *req.Accept,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "respond to challenge failed", "challenge_id", challengeID, "actor_id", actorID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(item))
}

func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SubmitResult")
	defer span.End()

	actorID, err := actorFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitResultRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := h.challengeService.SubmitResult(ctx, usecase.SubmitResultInput{
		ChallengeID:     challengeID,
		ActorID:         actorID,
		WinnerID:        req.WinnerID,
		Sets:            setsFromRequest(req.Sets),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit result failed", "challenge_id", challengeID, "actor_id", actorID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(item))
}

func (h *Handler) ResolveResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ResolveResult")
	defer span.End()

	actorID, err := actorFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req resolveResultRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := h.approvalService.ResolveResult(ctx, usecase.ResolveResultInput{
		ChallengeID:     challengeID,
		ActorID:         actorID,
		Approve:         *req.Approve,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resolve result failed", "challenge_id", challengeID, "actor_id", actorID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(item))
}

func parseChallengeFilter(r *http.Request) (challenge.ListFilter, error) {
	query := r.URL.Query()
	filter := challenge.ListFilter{
		ParticipantID: strings.TrimSpace(query.Get("participant_id")),
	}

	switch status := challenge.Status(strings.ToLower(strings.TrimSpace(query.Get("status")))); status {
	case "":
	case challenge.StatusPending, challenge.StatusAccepted, challenge.StatusRejected, challenge.StatusCompleted:
		filter.Status = status
	default:
		return challenge.ListFilter{}, fmt.Errorf("%w: unknown challenge status %q", usecase.ErrInvalidInput, status)
	}

	switch resultStatus := challenge.ResultStatus(strings.ToLower(strings.TrimSpace(query.Get("result_status")))); resultStatus {
	case challenge.ResultStatusNone:
	case challenge.ResultStatusPending, challenge.ResultStatusApproved, challenge.ResultStatusDisputed:
		filter.ResultStatus = resultStatus
	default:
		return challenge.ListFilter{}, fmt.Errorf("%w: unknown result status %q", usecase.ErrInvalidInput, resultStatus)
	}

	return filter, nil
}
