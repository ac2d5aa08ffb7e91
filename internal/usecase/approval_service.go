package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	idgen "github.com/riskibarqy/challenge-league/internal/platform/id"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

type ResolveResultInput struct {
	ChallengeID     string
	ActorID         string
	Approve         bool
	ExpectedVersion int64
}

// ApprovalService confirms or disputes submitted results. Approval and the
// standings rebuild it causes commit or roll back together.
type ApprovalService struct {
	transitioner *challengeTransitioner
	ranking      *RankingService
	logger       *logging.Logger
	now          func() time.Time
}

func NewApprovalService(
	participantRepo participant.Repository,
	challengeRepo challenge.Repository,
	tx Transactor,
	ranking *RankingService,
	recorder event.Recorder,
	publisher event.Publisher,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ApprovalService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ApprovalService{
		transitioner: &challengeTransitioner{
			challengeRepo:   challengeRepo,
			participantRepo: participantRepo,
			tx:              tx,
			events:          newEventSink(recorder, publisher, idGen, logger),
		},
		ranking: ranking,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *ApprovalService) ResolveResult(ctx context.Context, input ResolveResultInput) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ApprovalService.ResolveResult", challengeAttr(input.ChallengeID))
	defer span.End()

	input.ActorID = strings.TrimSpace(input.ActorID)
	if input.ActorID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}

	item, err := s.transitioner.apply(ctx, input.ChallengeID, input.ExpectedVersion,
		func(next challenge.Challenge) event.Type {
			if next.ResultStatus == challenge.ResultStatusApproved {
				return event.TypeResultApproved
			}
			return event.TypeResultDisputed
		},
		input.ActorID,
		func(_ context.Context, current challenge.Challenge, sides challengeSides) (challenge.Challenge, error) {
			return current.Resolve(input.ActorID, sides.challenger, sides.challenged, input.Approve, s.now().UTC())
		},
		func(txCtx context.Context, next challenge.Challenge) ([]event.Event, error) {
			if next.ResultStatus != challenge.ResultStatusApproved {
				return nil, nil
			}
			_, events, err := s.ranking.recomputeInTx(txCtx, next.LeagueID)
			if err != nil {
				return nil, fmt.Errorf("recompute standings for approved challenge %s: %w", next.ID, err)
			}
			return events, nil
		},
	)
	if err != nil {
		return challenge.Challenge{}, err
	}

	if item.ResultStatus == challenge.ResultStatusApproved {
		if invalidator, ok := s.ranking.standingRepo.(standingCacheInvalidator); ok {
			invalidator.InvalidateLeague(ctx, item.LeagueID)
		}
	}

	s.logger.InfoContext(ctx, "challenge result resolved",
		"challenge_id", item.ID,
		"league_id", item.LeagueID,
		"result_status", string(item.ResultStatus),
		"approver", item.ApprovedBy,
	)
	return item, nil
}
