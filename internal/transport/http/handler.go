// Package httpapi exposes the registry, control, compliance, and ledger
// services over a JSON HTTP surface. Compliance denials on mutating ledger
// routes are reported with 422 and the reason code; the preflight check
// endpoint always answers 200 so callers can probe without side effects.
package httpapi

import (
	"context"
	"log/slog"

	"coinscious/internal/audit"
	auditstore "coinscious/internal/audit/store"
	"coinscious/internal/compliance"
	"coinscious/internal/control"
	"coinscious/internal/ledger"
	"coinscious/internal/registry"
	id "coinscious/pkg/domain"
)

// RegistryService is the slice of the registry the API needs.
type RegistryService interface {
	SetClaims(ctx context.Context, wallet id.WalletAddress, claims registry.Claims) error
	Revoke(ctx context.Context, wallet id.WalletAddress) error
	Whitelist(ctx context.Context, wallet id.WalletAddress) error
	Status(ctx context.Context, wallet id.WalletAddress) (*registry.Status, error)
}

// ControlService covers pause, freeze, and the controller handover flows.
type ControlService interface {
	Pause(ctx context.Context) error
	Unpause(ctx context.Context) error
	Freeze(ctx context.Context, wallet id.WalletAddress) error
	Unfreeze(ctx context.Context, wallet id.WalletAddress) error
	SetOracle(ctx context.Context, wallet id.WalletAddress) error
	ReplaceController(ctx context.Context, wallet id.WalletAddress) error
	ProposeController(ctx context.Context, successor id.WalletAddress) error
	AcceptController(ctx context.Context) error
	State(ctx context.Context) (control.State, error)
}

// ComplianceService is the read-only preflight checker.
type ComplianceService interface {
	IsTransferAllowed(ctx context.Context, source id.Source, dest id.WalletAddress, partition id.Partition, amount int64) (compliance.Verdict, error)
}

// LedgerService covers the four mutating operations plus the reads.
type LedgerService interface {
	Issue(ctx context.Context, partition id.Partition, to id.WalletAddress, amount int64) (*ledger.Result, error)
	Redeem(ctx context.Context, partition id.Partition, from id.WalletAddress, amount int64) (*ledger.Result, error)
	Transfer(ctx context.Context, partition id.Partition, to id.WalletAddress, amount int64) (*ledger.Result, error)
	ForceTransfer(ctx context.Context, partition id.Partition, from, to id.WalletAddress, amount int64, reason, note string) (*ledger.Result, error)
	Balance(ctx context.Context, wallet id.WalletAddress, partition id.Partition) (int64, error)
	Supply(ctx context.Context, partition id.Partition) (int64, error)
	TotalSupply(ctx context.Context) (int64, error)
}

// SnapshotService serves cached point-in-time ledger captures.
type SnapshotService interface {
	Latest(ctx context.Context) (*ledger.Snapshot, error)
}

// AuditReader is the export view over the append-only audit log.
type AuditReader interface {
	List(ctx context.Context, filter auditstore.Filter) ([]audit.Event, error)
}

// Handler holds the services behind the HTTP surface.
type Handler struct {
	registry   RegistryService
	control    ControlService
	compliance ComplianceService
	ledger     LedgerService
	snapshots  SnapshotService
	auditLog   AuditReader
	logger     *slog.Logger
}

func NewHandler(
	reg RegistryService,
	ctl ControlService,
	chk ComplianceService,
	led LedgerService,
	snap SnapshotService,
	auditLog AuditReader,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry:   reg,
		control:    ctl,
		compliance: chk,
		ledger:     led,
		snapshots:  snap,
		auditLog:   auditLog,
		logger:     logger,
	}
}
