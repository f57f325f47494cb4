package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aidar/member-service/internal/domain"
	"github.com/aidar/member-service/internal/repository"
)

// MemberService handles the lookup-or-create flow for members
type MemberService struct {
	memberRepo repository.MemberRepository
	processes  repository.ProcessStore
	events     repository.EventPublisher
	facts      repository.FactProvider
	newMembers prometheus.Counter
	logger     *slog.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(
	memberRepo repository.MemberRepository,
	processes repository.ProcessStore,
	events repository.EventPublisher,
	facts repository.FactProvider,
	newMembers prometheus.Counter,
	logger *slog.Logger,
) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		processes:  processes,
		events:     events,
		facts:      facts,
		newMembers: newMembers,
		logger:     logger,
	}
}

// Resolve looks up a member by userId, creating one with synthetic names
// if no row exists. No notifications fire on this path
func (s *MemberService) Resolve(ctx context.Context, transactionID, userID string) (*domain.Member, error) {
	member, _, err := s.lookupOrCreate(ctx, userID)
	return member, err
}

// Register looks up or creates a member; on creation it records the
// registration in the document store, publishes a queue event and bumps
// the new-member counter. The response is always enriched with a cat fact
func (s *MemberService) Register(ctx context.Context, transactionID, userID string) (*domain.Member, error) {
	member, created, err := s.lookupOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if created {
		// Welcome process via the document store
		s.processes.Record(ctx, transactionID, member)
		// Event driven process via the queue
		s.events.Publish(ctx, transactionID, member, domain.EventRegistered)
		s.newMembers.Inc()
	}

	member.CatFact = s.facts.Fact(ctx)
	return member, nil
}

// lookupOrCreate returns the stored member for userID, inserting a new row
// with generated names when none exists. The second return reports whether
// an insert happened
func (s *MemberService) lookupOrCreate(ctx context.Context, userID string) (*domain.Member, bool, error) {
	member, err := s.memberRepo.GetByID(ctx, userID)
	if err == nil {
		return member, false, nil
	}
	if !errors.Is(err, domain.ErrMemberNotFound) {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrMemberResolution, err)
	}

	member = &domain.Member{
		UserID:    userID,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		if errors.Is(err, domain.ErrMemberExists) {
			// Lost a concurrent create for the same userId,
			// the unique constraint is the source of truth: take the winner's row
			existing, readErr := s.memberRepo.GetByID(ctx, userID)
			if readErr != nil {
				return nil, false, fmt.Errorf("%w: %v", domain.ErrMemberResolution, readErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", domain.ErrMemberResolution, err)
	}

	s.logger.Info("Created new member", "userId", userID)
	return member, true, nil
}
