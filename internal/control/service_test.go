package control_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"coinscious/internal/control"
	"coinscious/internal/control/store"
	id "coinscious/pkg/domain"
	dErrors "coinscious/pkg/domain-errors"
	"coinscious/pkg/requestcontext"
)

const (
	adminAddr      = id.WalletAddress("0x1111111111111111111111111111111111111111")
	oracleAddr     = id.WalletAddress("0x2222222222222222222222222222222222222222")
	controllerAddr = id.WalletAddress("0x3333333333333333333333333333333333333333")
	successorAddr  = id.WalletAddress("0x4444444444444444444444444444444444444444")
	holderAddr     = id.WalletAddress("0x5555555555555555555555555555555555555555")
)

type ServiceSuite struct {
	suite.Suite
	service *control.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	genesis := control.State{
		Admin:      adminAddr,
		Oracle:     oracleAddr,
		Controller: controllerAddr,
	}
	s.service = control.NewService(store.NewInMemoryStore(genesis))
}

func (s *ServiceSuite) as(wallet id.WalletAddress) context.Context {
	return requestcontext.WithActor(context.Background(), wallet)
}

func (s *ServiceSuite) TestRequireRole() {
	s.Run("holder passes", func() {
		s.NoError(s.service.RequireRole(s.as(adminAddr), id.RoleAdmin))
		s.NoError(s.service.RequireRole(s.as(oracleAddr), id.RoleOracle))
		s.NoError(s.service.RequireRole(s.as(controllerAddr), id.RoleController))
	})

	s.Run("wrong role fails", func() {
		err := s.service.RequireRole(s.as(oracleAddr), id.RoleAdmin)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("anonymous fails", func() {
		err := s.service.RequireRole(context.Background(), id.RoleAdmin)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestPause() {
	ctx := s.as(adminAddr)

	paused, err := s.service.IsPaused(ctx)
	s.Require().NoError(err)
	s.False(paused)

	s.Require().NoError(s.service.Pause(ctx))
	paused, err = s.service.IsPaused(ctx)
	s.Require().NoError(err)
	s.True(paused)

	// Idempotent.
	s.Require().NoError(s.service.Pause(ctx))

	s.Require().NoError(s.service.Unpause(ctx))
	paused, err = s.service.IsPaused(ctx)
	s.Require().NoError(err)
	s.False(paused)
}

func (s *ServiceSuite) TestPauseRequiresAdmin() {
	err := s.service.Pause(s.as(controllerAddr))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestFreeze() {
	ctx := s.as(adminAddr)

	frozen, err := s.service.IsFrozen(ctx, holderAddr)
	s.Require().NoError(err)
	s.False(frozen)

	s.Require().NoError(s.service.Freeze(ctx, holderAddr))
	frozen, err = s.service.IsFrozen(ctx, holderAddr)
	s.Require().NoError(err)
	s.True(frozen)

	s.Require().NoError(s.service.Unfreeze(ctx, holderAddr))
	frozen, err = s.service.IsFrozen(ctx, holderAddr)
	s.Require().NoError(err)
	s.False(frozen)
}

func (s *ServiceSuite) TestControllerHandover() {
	s.Run("only controller may propose", func() {
		err := s.service.ProposeController(s.as(adminAddr), successorAddr)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("accept without pending proposal conflicts", func() {
		err := s.service.AcceptController(s.as(successorAddr))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("full handover rotates the role atomically", func() {
		s.Require().NoError(s.service.ProposeController(s.as(controllerAddr), successorAddr))

		// Someone other than the proposed successor may not accept.
		err := s.service.AcceptController(s.as(holderAddr))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		s.Require().NoError(s.service.AcceptController(s.as(successorAddr)))

		// The new controller holds the role, the old one lost it.
		s.NoError(s.service.RequireRole(s.as(successorAddr), id.RoleController))
		s.Error(s.service.RequireRole(s.as(controllerAddr), id.RoleController))

		// The proposal is consumed.
		err = s.service.AcceptController(s.as(successorAddr))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("re-proposing overwrites the pending successor", func() {
		// successorAddr holds the controller role after the handover above.
		s.Require().NoError(s.service.ProposeController(s.as(successorAddr), controllerAddr))
		s.Require().NoError(s.service.ProposeController(s.as(successorAddr), holderAddr))

		err := s.service.AcceptController(s.as(controllerAddr))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Require().NoError(s.service.AcceptController(s.as(holderAddr)))
	})
}

func (s *ServiceSuite) TestReplaceControllerClearsPending() {
	s.Require().NoError(s.service.ProposeController(s.as(controllerAddr), successorAddr))
	s.Require().NoError(s.service.ReplaceController(s.as(adminAddr), holderAddr))

	// The stale proposal must not be acceptable after the emergency swap.
	err := s.service.AcceptController(s.as(successorAddr))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	s.NoError(s.service.RequireRole(s.as(holderAddr), id.RoleController))
}

func (s *ServiceSuite) TestSetOracle() {
	newOracle := id.WalletAddress("0x6666666666666666666666666666666666666666")
	s.Require().NoError(s.service.SetOracle(s.as(adminAddr), newOracle))

	s.NoError(s.service.RequireRole(s.as(newOracle), id.RoleOracle))
	s.Error(s.service.RequireRole(s.as(oracleAddr), id.RoleOracle))
}
