package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

var errGroupNotFound = goerror.NewBusiness("support group not found", goerror.CodeNotFound)

func (s *Usecase) ListGroups(ctx context.Context) ([]entity.SupportGroup, error) {
	ctx, span := s.startSpan(ctx, "ListGroups")
	defer span.End()

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.repoDB.ListGroups(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list groups", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return groups, nil
}

type GroupMembershipInput struct {
	Slug   string `json:"slug" validate:"required,max=80,slug"`
	Action string `json:"action" validate:"required,oneof=join leave"`
}

// JoinOrLeaveGroup is idempotent in both directions and returns the group
// with the resulting membership.
func (s *Usecase) JoinOrLeaveGroup(ctx context.Context, in GroupMembershipInput) (*entity.SupportGroup, error) {
	ctx, span := s.startSpan(ctx, "JoinOrLeaveGroup")
	defer span.End()

	in.Slug = strings.TrimSpace(in.Slug)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.repoDB.GetGroupBySlug(ctx, in.Slug)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errGroupNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get group", "slug", in.Slug, "error", err)
		return nil, goerror.NewServer(err)
	}

	switch entity.MembershipAction(in.Action) {
	case entity.MembershipJoin:
		err = s.repoDB.JoinGroup(ctx, group.ID, userID, s.clock.Now())
		group.IsJoined = true
	case entity.MembershipLeave:
		err = s.repoDB.LeaveGroup(ctx, group.ID, userID)
		group.IsJoined = false
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo change membership", "slug", in.Slug, "action", in.Action, "error", err)
		return nil, goerror.NewServer(err)
	}

	return group, nil
}
