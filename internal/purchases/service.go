package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artha-erp/artha/internal/accounts"
	"github.com/artha-erp/artha/internal/documents"
	"github.com/artha-erp/artha/internal/inventory"
	"github.com/artha-erp/artha/internal/platform/db"
	"github.com/artha-erp/artha/internal/shared"
)

// LedgerPort exposes the stock ledger operations the service needs. The
// executor argument binds ledger writes to the service's transaction.
type LedgerPort interface {
	Apply(ctx context.Context, ex db.Executor, input inventory.MovementInput) (inventory.Movement, error)
}

// AccountsPort verifies the counterparty at creation.
type AccountsPort interface {
	Get(ctx context.Context, id int64) (accounts.Account, error)
}

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates purchase numbering, pricing, persistence and the
// status state machine.
type Service struct {
	repo     Repository
	ledger   LedgerPort
	accounts AccountsPort
	audit    AuditPort
}

// NewService constructs purchase service.
func NewService(repo Repository, ledger LedgerPort, accounts AccountsPort, audit AuditPort) *Service {
	return &Service{repo: repo, ledger: ledger, accounts: accounts, audit: audit}
}

// Create prices the lines, assigns a document number and persists header
// plus lines in one transaction. A duplicate number surfaces as Conflict;
// the caller decides whether to retry.
func (s *Service) Create(ctx context.Context, req CreatePurchaseRequest, actorID int64) (*WithNames, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: purchase requires at least one line", shared.ErrValidation)
	}

	account, err := s.accounts.Get(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("verify account: %w", err)
	}
	if account.Kind != accounts.KindSupplier {
		return nil, fmt.Errorf("%w: account %d is not a supplier", shared.ErrValidation, req.AccountID)
	}

	inputs := make([]documents.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		inputs = append(inputs, documents.LineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Discount:  line.Discount,
			Notes:     line.Notes,
		})
	}
	priced, total := documents.PriceLines(inputs)

	purchase := Purchase{
		Number:         documents.Number(documents.PrefixPurchase, time.Now()),
		AccountID:      req.AccountID,
		StoreID:        req.StoreID,
		TotalAmount:    total,
		DiscountAmount: req.DiscountAmount,
		GrandTotal:     documents.GrandTotal(total, req.DiscountAmount),
		Status:         StatusDraft,
		Notes:          req.Notes,
	}

	var id int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx Repository, _ db.Executor) error {
		id, err = tx.Create(ctx, purchase)
		if err != nil {
			return err
		}
		for _, line := range priced {
			if _, err := tx.InsertLine(ctx, Line{
				PurchaseID: id,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				Discount:   line.Discount,
				Subtotal:   line.Subtotal,
				Notes:      line.Notes,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actorID, "purchase:create", id, map[string]any{"number": purchase.Number, "grand_total": purchase.GrandTotal})
	return s.repo.Get(ctx, id)
}

// Get fetches a purchase with resolved names and lines.
func (s *Service) Get(ctx context.Context, id int64) (*WithNames, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered, sorted, paginated listing.
func (s *Service) List(ctx context.Context, req ListRequest) ([]WithNames, int, error) {
	return s.repo.List(ctx, req)
}

// UpdateStatus runs the state machine. Receiving a purchase applies one
// inbound movement per line and the status write in one transaction.
// Inbound movements need no availability pre-check. Re-invoking a
// transition already in the target status is a stock no-op.
func (s *Service) UpdateStatus(ctx context.Context, id int64, next Status, actorID int64) (*WithNames, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown purchase status %q", shared.ErrValidation, next)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository, ex db.Executor) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := validateTransition(current.Status, next); err != nil {
			return err
		}

		if stockEffect(current.Status, next) {
			lines, err := tx.GetLines(ctx, id)
			if err != nil {
				return err
			}
			for _, line := range lines {
				refID := uuid.NewSHA1(uuid.Nil, []byte(fmt.Sprintf("PO:%d:%d", id, line.ID)))
				if _, err := s.ledger.Apply(ctx, ex, inventory.MovementInput{
					ProductID: line.ProductID,
					Direction: inventory.DirectionIn,
					Quantity:  line.Quantity,
					Note:      fmt.Sprintf("Purchase %s received", current.Number),
					AccountID: &current.AccountID,
					StoreID:   current.StoreID,
					RefID:     refID.String(),
				}); err != nil {
					return err
				}
			}
		}

		return tx.UpdateStatus(ctx, id, next)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actorID, "purchase:status", id, map[string]any{"status": string(next)})
	return s.repo.Get(ctx, id)
}

// Delete soft-deletes the purchase; it disappears from all reads.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "purchase:delete", id, nil)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "purchase",
		EntityID: fmt.Sprintf("%d", entityID),
		Meta:     meta,
	})
}
