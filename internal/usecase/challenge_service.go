package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	"github.com/riskibarqy/challenge-league/internal/domain/league"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	"github.com/riskibarqy/challenge-league/internal/domain/score"
	idgen "github.com/riskibarqy/challenge-league/internal/platform/id"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"golang.org/x/sync/errgroup"
)

type CreateChallengeInput struct {
	// ActorID is optional. When set it must be a member of the challenger.
	ActorID      string
	ChallengerID string
	ChallengedID string
	LeagueID     string
	Location     string
	ProposedAt   time.Time
}

type RespondToChallengeInput struct {
	ChallengeID     string
	ActorID         string
	Accept          bool
	ExpectedVersion int64
}

type SubmitResultInput struct {
	ChallengeID     string
	ActorID         string
	WinnerID        string
	Sets            []score.Set
	ExpectedVersion int64
}

type ChallengeService struct {
	leagueRepo      league.Repository
	participantRepo participant.Repository
	challengeRepo   challenge.Repository
	transitioner    *challengeTransitioner
	events          *eventSink
	idGen           idgen.Generator
	logger          *logging.Logger
	now             func() time.Time
}

func NewChallengeService(
	leagueRepo league.Repository,
	participantRepo participant.Repository,
	challengeRepo challenge.Repository,
	tx Transactor,
	recorder event.Recorder,
	publisher event.Publisher,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ChallengeService {
	if logger == nil {
		logger = logging.Default()
	}

	events := newEventSink(recorder, publisher, idGen, logger)
	return &ChallengeService{
		leagueRepo:      leagueRepo,
		participantRepo: participantRepo,
		challengeRepo:   challengeRepo,
		transitioner: &challengeTransitioner{
			challengeRepo:   challengeRepo,
			participantRepo: participantRepo,
			tx:              tx,
			events:          events,
		},
		events: events,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, input CreateChallengeInput) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.CreateChallenge", leagueAttr(input.LeagueID))
	defer span.End()

	input.ActorID = strings.TrimSpace(input.ActorID)
	input.ChallengerID = strings.TrimSpace(input.ChallengerID)
	input.ChallengedID = strings.TrimSpace(input.ChallengedID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.Location = strings.TrimSpace(input.Location)

	switch {
	case input.ChallengerID == "":
		return challenge.Challenge{}, fmt.Errorf("%w: challenger id is required", ErrInvalidInput)
	case input.ChallengedID == "":
		return challenge.Challenge{}, fmt.Errorf("%w: challenged id is required", ErrInvalidInput)
	case input.LeagueID == "":
		return challenge.Challenge{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	case input.Location == "":
		return challenge.Challenge{}, fmt.Errorf("%w: location is required", ErrInvalidInput)
	case input.ProposedAt.IsZero():
		return challenge.Challenge{}, fmt.Errorf("%w: proposed time is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	if input.ProposedAt.Before(now) {
		return challenge.Challenge{}, classifyError(fmt.Errorf("%w: %s", challenge.ErrProposedInPast, input.ProposedAt.UTC().Format(time.RFC3339)))
	}

	var (
		lg         league.League
		roster     []string
		challenger participant.Participant
		challenged participant.Participant
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		item, exists, err := s.leagueRepo.GetByID(groupCtx, input.LeagueID)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
		}
		lg = item
		return nil
	})
	group.Go(func() error {
		ids, err := s.leagueRepo.ListParticipantIDs(groupCtx, input.LeagueID)
		if err != nil {
			return fmt.Errorf("list league roster: %w", err)
		}
		roster = ids
		return nil
	})
	group.Go(func() error {
		item, err := getParticipant(groupCtx, s.participantRepo, input.ChallengerID)
		challenger = item
		return err
	})
	group.Go(func() error {
		item, err := getParticipant(groupCtx, s.participantRepo, input.ChallengedID)
		challenged = item
		return err
	})
	if err := group.Wait(); err != nil {
		return challenge.Challenge{}, err
	}

	if challenger.Kind() != lg.ParticipantKind {
		return challenge.Challenge{}, classifyError(fmt.Errorf("%w: league %s is for %s participants", challenge.ErrKindMismatch, lg.ID, lg.ParticipantKind))
	}
	if len(roster) > 0 {
		for _, id := range []string{challenger.ID(), challenged.ID()} {
			if !slices.Contains(roster, id) {
				return challenge.Challenge{}, fmt.Errorf("%w: participant %s is not in league %s", ErrInvalidInput, id, lg.ID)
			}
		}
	}
	if input.ActorID != "" && !challenger.HasMember(input.ActorID) {
		return challenge.Challenge{}, classifyError(fmt.Errorf("%w: actor=%s", challenge.ErrNotChallenger, input.ActorID))
	}

	challengeID, err := s.idGen.NewID()
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("generate challenge id: %w", err)
	}

	item, err := challenge.New(challenge.NewParams{
		ID:         challengeID,
		LeagueID:   lg.ID,
		Challenger: challenger,
		Challenged: challenged,
		Location:   input.Location,
		ProposedAt: input.ProposedAt,
	}, now)
	if err != nil {
		return challenge.Challenge{}, classifyError(err)
	}

	var events []event.Event
	err = s.transitioner.tx.InLeagueTx(ctx, item.LeagueID, func(txCtx context.Context) error {
		if err := s.challengeRepo.Create(txCtx, item); err != nil {
			return fmt.Errorf("create challenge: %w", err)
		}
		created, err := s.events.challengeEvent(event.TypeChallengeCreated, item, input.ActorID, now)
		if err != nil {
			return err
		}
		created.Payload["proposed_at"] = item.ProposedAt.Format(time.RFC3339)
		created.Payload["location"] = item.Location
		events = append(events, created)
		return s.events.record(txCtx, events)
	})
	if err != nil {
		return challenge.Challenge{}, err
	}

	s.events.publish(ctx, events)
	s.logger.InfoContext(ctx, "challenge created",
		"challenge_id", item.ID,
		"league_id", item.LeagueID,
		"challenger_id", item.ChallengerID,
		"challenged_id", item.ChallengedID,
	)
	return item, nil
}

func (s *ChallengeService) RespondToChallenge(ctx context.Context, input RespondToChallengeInput) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.RespondToChallenge", challengeAttr(input.ChallengeID))
	defer span.End()

	input.ActorID = strings.TrimSpace(input.ActorID)
	if input.ActorID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}

	return s.transitioner.apply(ctx, input.ChallengeID, input.ExpectedVersion,
		func(next challenge.Challenge) event.Type {
			if next.Status == challenge.StatusAccepted {
				return event.TypeChallengeAccepted
			}
			return event.TypeChallengeRejected
		},
		input.ActorID,
		func(_ context.Context, current challenge.Challenge, sides challengeSides) (challenge.Challenge, error) {
			return current.Respond(input.ActorID, sides.challenged, input.Accept, s.now().UTC())
		},
		nil,
	)
}

func (s *ChallengeService) SubmitResult(ctx context.Context, input SubmitResultInput) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.SubmitResult", challengeAttr(input.ChallengeID))
	defer span.End()

	input.ActorID = strings.TrimSpace(input.ActorID)
	input.WinnerID = strings.TrimSpace(input.WinnerID)
	if input.ActorID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}

	return s.transitioner.apply(ctx, input.ChallengeID, input.ExpectedVersion,
		func(challenge.Challenge) event.Type { return event.TypeResultSubmitted },
		input.ActorID,
		func(_ context.Context, current challenge.Challenge, sides challengeSides) (challenge.Challenge, error) {
			return current.SubmitResult(input.ActorID, sides.challenger, sides.challenged, input.WinnerID, input.Sets, s.now().UTC())
		},
		nil,
	)
}

func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID string) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.GetChallenge", challengeAttr(challengeID))
	defer span.End()

	return s.transitioner.load(ctx, challengeID)
}

func (s *ChallengeService) ListChallengesByLeague(ctx context.Context, leagueID string, filter challenge.ListFilter) ([]challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.ListChallengesByLeague", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, err := ensureLeague(ctx, s.leagueRepo, leagueID); err != nil {
		return nil, err
	}

	items, err := s.challengeRepo.ListByLeague(ctx, leagueID, filter)
	if err != nil {
		return nil, fmt.Errorf("list challenges by league: %w", err)
	}
	return items, nil
}

func ensureLeague(ctx context.Context, repo league.Repository, leagueID string) (league.League, error) {
	item, exists, err := repo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return item, nil
}
