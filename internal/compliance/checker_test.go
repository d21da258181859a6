package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coinscious/internal/registry"
	id "coinscious/pkg/domain"
	"coinscious/pkg/requestcontext"
)

// Shared across tests: NewMetrics registers on the default Prometheus
// registry, which panics on duplicate registration.
var testMetrics = NewMetrics()

type fakeRegistry struct {
	records map[id.WalletAddress]*registry.WalletRecord
	err     error
}

func (f *fakeRegistry) Record(_ context.Context, wallet id.WalletAddress) (*registry.WalletRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[wallet], nil
}

type fakeControl struct {
	paused bool
	frozen map[id.WalletAddress]bool
}

func (f *fakeControl) IsPaused(context.Context) (bool, error) {
	return f.paused, nil
}

func (f *fakeControl) IsFrozen(_ context.Context, wallet id.WalletAddress) (bool, error) {
	return f.frozen[wallet], nil
}

type CheckerSuite struct {
	suite.Suite
	registry *fakeRegistry
	control  *fakeControl
	checker  *Checker
	ctx      context.Context
	now      time.Time

	alice id.WalletAddress
	bob   id.WalletAddress
}

func TestCheckerSuite(t *testing.T) {
	suite.Run(t, new(CheckerSuite))
}

func (s *CheckerSuite) SetupTest() {
	s.registry = &fakeRegistry{records: map[id.WalletAddress]*registry.WalletRecord{}}
	s.control = &fakeControl{frozen: map[id.WalletAddress]bool{}}
	s.checker = NewChecker(s.registry, s.control, WithMetrics(testMetrics))
	s.now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.alice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	s.bob = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	s.registry.records[s.alice] = s.record(true)
	s.registry.records[s.bob] = s.record(true)
}

func (s *CheckerSuite) record(accredited bool) *registry.WalletRecord {
	return &registry.WalletRecord{
		Claims:      registry.Claims{Country: "DE", Accredited: accredited},
		Whitelisted: true,
	}
}

func (s *CheckerSuite) TestAllowedTransfer() {
	v, err := s.checker.IsTransferAllowed(s.ctx, id.WalletSource(s.alice), s.bob, id.PartitionRegD, 10)
	s.Require().NoError(err)
	s.True(v.Allowed)
	s.Equal(id.ReasonOK, v.Reason)
}

func (s *CheckerSuite) TestMissingClaimsDenied() {
	stranger := id.WalletAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	v, err := s.checker.IsTransferAllowed(s.ctx, id.WalletSource(s.alice), stranger, id.PartitionRegD, 10)
	s.Require().NoError(err)
	s.False(v.Allowed)
	s.Equal(id.ReasonNotWhitelisted, v.Reason)
}

func (s *CheckerSuite) TestPausedDenied() {
	s.control.paused = true
	v, err := s.checker.IsTransferAllowed(s.ctx, id.WalletSource(s.alice), s.bob, id.PartitionRegD, 10)
	s.Require().NoError(err)
	s.False(v.Allowed)
	s.Equal(id.ReasonCompliancePaused, v.Reason)
}

func (s *CheckerSuite) TestFreezeComesFromControlState() {
	s.control.frozen[s.bob] = true
	v, err := s.checker.IsTransferAllowed(s.ctx, id.WalletSource(s.alice), s.bob, id.PartitionRegD, 10)
	s.Require().NoError(err)
	s.Equal(id.ReasonFrozen, v.Reason)
}

func (s *CheckerSuite) TestLockupUsesRequestClock() {
	rec := s.record(true)
	rec.Claims.LockupUntil = s.now.Add(time.Hour)
	s.registry.records[s.alice] = rec

	v, err := s.checker.IsTransferAllowed(s.ctx, id.WalletSource(s.alice), s.bob, id.PartitionRegD, 10)
	s.Require().NoError(err)
	s.Equal(id.ReasonLockupActive, v.Reason)
	s.Equal(rec.Claims.LockupUntil, v.BlockedUntil)

	later := requestcontext.WithTime(context.Background(), rec.Claims.LockupUntil)
	v, err = s.checker.IsTransferAllowed(later, id.WalletSource(s.alice), s.bob, id.PartitionRegD, 10)
	s.Require().NoError(err)
	s.True(v.Allowed)
}

func (s *CheckerSuite) TestIssuanceSkipsSourceLoad() {
	// No claims anywhere except the destination; issuance only inspects
	// the destination leg.
	v, err := s.checker.IsTransferAllowed(s.ctx, id.ExternalSource(), s.bob, id.PartitionRegD, 10)
	s.Require().NoError(err)
	s.True(v.Allowed)
}

func (s *CheckerSuite) TestStoreFaultPropagates() {
	s.registry.err = errors.New("registry down")
	_, err := s.checker.IsTransferAllowed(s.ctx, id.WalletSource(s.alice), s.bob, id.PartitionRegD, 10)
	s.Require().Error(err)
}
