package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/logger"
)

// RejectionRetention is how long a rejected link sticks around before the
// sweep clears it back to the unlinked state.
const RejectionRetention = 72 * time.Hour

// LinkService is the parent-student link state machine. Every transition is
// a conditional store update, so two racing calls on the same entry resolve
// with exactly one winner; the loser sees an invalid-state error, which is a
// business rejection rather than something to retry.
type LinkService struct {
	students  RosterStore
	parents   ParentStore
	retention time.Duration
	now       func() time.Time
}

// NewLinkService creates a new link workflow service instance
func NewLinkService(students RosterStore, parents ParentStore) *LinkService {
	return &LinkService{
		students:  students,
		parents:   parents,
		retention: RejectionRetention,
		now:       time.Now,
	}
}

// SetRetention overrides how long rejections stick around before the sweep
// clears them. Zero or negative values are ignored.
func (s *LinkService) SetRetention(d time.Duration) {
	if d > 0 {
		s.retention = d
	}
}

// RequestLink asks to associate a parent with a roster entry. Allowed only
// when the entry has no link or a rejected one; a pending or approved link
// blocks any further request, including one from a different parent.
func (s *LinkService) RequestLink(ctx context.Context, studentID, parentID int64, relationship string) error {
	relationship = strings.TrimSpace(relationship)
	if relationship == "" {
		return apperrors.NewBadRequestError("relationship is required")
	}

	if _, err := s.parents.GetByID(ctx, parentID); err != nil {
		return err
	}

	ok, err := s.students.SetLinkPending(ctx, studentID, parentID, relationship)
	if err != nil {
		return err
	}
	if !ok {
		return s.transitionFailure(ctx, studentID, "request")
	}

	logger.Info().Int64("studentID", studentID).Int64("parentID", parentID).Msg("Link requested")
	return nil
}

// ApproveLink approves a pending link request
func (s *LinkService) ApproveLink(ctx context.Context, studentID int64) error {
	ok, err := s.students.SetLinkApproved(ctx, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return s.transitionFailure(ctx, studentID, "approve")
	}

	logger.Info().Int64("studentID", studentID).Msg("Link approved")
	return nil
}

// RejectLink rejects a pending link request with a mandatory reason
func (s *LinkService) RejectLink(ctx context.Context, studentID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.ErrEmptyReason
	}

	ok, err := s.students.SetLinkRejected(ctx, studentID, reason)
	if err != nil {
		return err
	}
	if !ok {
		return s.transitionFailure(ctx, studentID, "reject")
	}

	logger.Info().Int64("studentID", studentID).Msg("Link rejected")
	return nil
}

// UnlinkStudent sends an approved link back to review. The parent reference
// is intentionally kept; this re-queues the same parent rather than severing
// the relationship. Requires an authenticated actor identity; parents may
// only unlink students linked to their own account.
func (s *LinkService) UnlinkStudent(ctx context.Context, studentID int64, actor models.Actor) error {
	if strings.TrimSpace(actor.Email) == "" {
		return apperrors.ErrEmptyActor
	}

	if actor.Role == models.RoleParent {
		student, err := s.students.GetByID(ctx, studentID)
		if err != nil {
			return err
		}
		if student.ParentID == nil || *student.ParentID != actor.AccountID {
			return apperrors.NewCustomError(apperrors.ErrPermissionDenied,
				"students may only be unlinked by their linked parent")
		}
	}

	ok, err := s.students.ReturnLinkToPending(ctx, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return s.transitionFailure(ctx, studentID, "unlink")
	}

	logger.Info().
		Int64("studentID", studentID).
		Str("actor", actor.Email).
		Str("actorRole", string(actor.Role)).
		Msg("Link returned to review")
	return nil
}

// SweepExpiredRejections clears every rejection older than the retention
// window back to the unlinked state and returns how many entries were
// cleared. Idempotent: a second run with nothing newly expired clears zero.
func (s *LinkService) SweepExpiredRejections(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	return s.students.ClearExpiredRejections(ctx, cutoff)
}

// transitionFailure distinguishes a missing entry from a disallowed state
// after a conditional update matched nothing.
func (s *LinkService) transitionFailure(ctx context.Context, studentID int64, op string) error {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	return apperrors.NewCustomError(apperrors.ErrInvalidLinkState,
		fmt.Sprintf("cannot %s link while status is %s", op, student.LinkStatus))
}
