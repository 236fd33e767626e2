package service

import (
	"context"

	"github.com/arpay/arpay/internal/domain/user"
	ierr "github.com/arpay/arpay/internal/errors"
	"github.com/arpay/arpay/internal/types"
)

// ActorService resolves the user an operation is attributed to. When the
// request carries no authenticated user the shared system account is used,
// created on first use.
type ActorService interface {
	ResolveActor(ctx context.Context) (*user.User, error)
}

type actorService struct {
	ServiceParams
}

func NewActorService(params ServiceParams) ActorService {
	return &actorService{ServiceParams: params}
}

func (s *actorService) ResolveActor(ctx context.Context) (*user.User, error) {
	if userID := types.GetUserID(ctx); userID != "" {
		u, err := s.UserRepo.GetByID(ctx, userID)
		if err == nil {
			return u, nil
		}
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		s.Logger.Warnw("request actor not found, falling back to system account",
			"user_id", userID)
	}
	return s.systemAccount(ctx)
}

func (s *actorService) systemAccount(ctx context.Context) (*user.User, error) {
	email := s.Config.SystemAccount.Email

	u, err := s.UserRepo.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	u = user.NewSystemAccount(email, s.Config.SystemAccount.Name)
	if err := s.UserRepo.Create(ctx, u); err != nil {
		// Lost the race against a concurrent first use, the account exists now.
		if ierr.IsAlreadyExists(err) {
			return s.UserRepo.GetByEmail(ctx, email)
		}
		return nil, err
	}

	s.Logger.Infow("created system account", "email", email)
	return u, nil
}
