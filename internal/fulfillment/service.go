package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

const (
	// selectAttempts bounds the retry loop when racing pickers grab the
	// same candidate order.
	selectAttempts = 3
	// selectBatchSize is how many candidate orders each attempt considers.
	selectBatchSize = 5
)

// Service drives the order fulfillment workflow.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderCreatedDTO, error)
	SelectForAreas(ctx context.Context, areaIDs []int64) (int64, error)
	ClaimLine(ctx context.Context, orderID int64, barcodeID string, pickedBy int64) (*LineDTO, error)
	RecordPick(ctx context.Context, input PickInput) (*LineDTO, error)
	ResetToPending(ctx context.Context, orderID int64) error
	CleanupUserProgress(ctx context.Context, employeeID int64) (*CleanupResult, error)
	EmployeeLog(ctx context.Context, employeeID int64) ([]EmployeeLogEntry, error)
}

// OrderLineInput is one requested item on a new order.
type OrderLineInput struct {
	BarcodeID string
	Quantity  int
}

// CreateOrderInput holds the lines for a new order.
type CreateOrderInput struct {
	Lines []OrderLineInput
}

// PickInput holds the validated payload for recording a pick.
type PickInput struct {
	OrderID   int64
	BarcodeID string
	Quantity  int
	Location  string
	PickedBy  int64
}

type service struct {
	repo     *Repository
	items    *inventory.Repository
	dbClient *db.Client
}

// NewService constructs the fulfillment service.
func NewService(repo *Repository, items *inventory.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("fulfillment repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, items: items, dbClient: dbClient}, nil
}

// CreateOrder inserts the order and all its lines, all or nothing.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderCreatedDTO, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	lines := make([]models.OrderLine, 0, len(input.Lines))
	for i, line := range input.Lines {
		if strings.TrimSpace(line.BarcodeID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "each order item needs a barcode_id").
				WithDetails(map[string]any{"index": i})
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "each order item needs a positive quantity").
				WithDetails(map[string]any{"index": i, "barcode_id": line.BarcodeID})
		}
		lines = append(lines, models.OrderLine{
			BarcodeID: strings.TrimSpace(line.BarcodeID),
			Quantity:  line.Quantity,
		})
	}

	order := &models.Order{Lines: lines}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &OrderCreatedDTO{OrderID: order.ID, OrderDate: order.OrderDate}, nil
}

// SelectForAreas finds a pending order whose items all live inside the given
// areas and reserves it for the caller. The conditional status update closes
// the race between two pickers reading the same candidate.
func (s *service) SelectForAreas(ctx context.Context, areaIDs []int64) (int64, error) {
	if len(areaIDs) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one area id is required")
	}

	for attempt := 0; attempt < selectAttempts; attempt++ {
		ids, err := s.repo.FindCandidateIDs(ctx, areaIDs, selectBatchSize)
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finding candidate orders")
		}
		if len(ids) == 0 {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "no pending orders found for selected locations")
		}

		for _, id := range ids {
			claimed, err := s.repo.MarkInProgressIfPending(ctx, id)
			if err != nil {
				return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserving order")
			}
			if claimed {
				return id, nil
			}
		}
	}

	return 0, pkgerrors.New(pkgerrors.CodeNotFound, "no pending orders found for selected locations")
}

// ClaimLine assigns the line to a picker. Reclaiming your own line succeeds;
// a line held by someone else conflicts. A still-pending order is promoted to
// in_progress so a second picker opening it transitions it too.
func (s *service) ClaimLine(ctx context.Context, orderID int64, barcodeID string, pickedBy int64) (*LineDTO, error) {
	if strings.TrimSpace(barcodeID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode_id is required")
	}
	if pickedBy <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "picked_by is required")
	}

	var claimed *models.OrderLine
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		line, err := repo.FindLine(ctx, orderID, barcodeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order line")
		}

		if line.PickedBy != nil && *line.PickedBy != pickedBy {
			return pkgerrors.New(pkgerrors.CodeConflict, "line already claimed by another picker").
				WithDetails(map[string]any{"order_id": orderID, "barcode_id": barcodeID})
		}

		if err := repo.SetLineClaim(ctx, orderID, barcodeID, pickedBy); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claiming order line")
		}
		if _, err := repo.MarkInProgressIfPending(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promoting order status")
		}

		claimed, err = repo.FindLine(ctx, orderID, barcodeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading order line")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toLineDTO(claimed), nil
}

// RecordPick is the central transaction: it validates the bin, advances the
// line, decrements the ledger, and recomputes order completion as one unit.
func (s *service) RecordPick(ctx context.Context, input PickInput) (*LineDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "picked_quantity must be a positive number")
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "picked_location is required")
	}

	var picked *models.OrderLine
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		items := s.items.WithTx(tx)

		item, err := items.FindWithLedger(ctx, input.BarcodeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
		}
		if !ledgerHasBin(item.Locations, input.Location) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid location: this item does not have the specified location").
				WithDetails(map[string]any{"picked_location": input.Location})
		}

		line, err := repo.FindLine(ctx, input.OrderID, input.BarcodeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order line")
		}
		if line.PickedQuantity+input.Quantity > line.Quantity {
			return pkgerrors.New(pkgerrors.CodeValidation, "pick exceeds requested quantity").
				WithDetails(map[string]any{
					"quantity":        line.Quantity,
					"picked_quantity": line.PickedQuantity,
					"requested":       input.Quantity,
				})
		}

		picked, err = repo.ApplyPick(ctx, input.OrderID, input.BarcodeID, input.Quantity, input.PickedBy)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording pick")
		}

		if picked.PickedQuantity >= picked.Quantity && picked.CompletedAt == nil {
			now := time.Now().UTC()
			if err := repo.StampLineCompleted(ctx, input.OrderID, input.BarcodeID, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamping line completion")
			}
			picked.CompletedAt = &now
		}

		if _, err := items.DecrementBin(ctx, input.BarcodeID, input.Location, input.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrementing bin quantity")
		}

		total, completed, err := repo.CompletionCounts(ctx, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking order completion")
		}
		if total > 0 && total == completed {
			if err := repo.SetStatus(ctx, input.OrderID, enums.OrderStatusCompleted); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "completing order")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toLineDTO(picked), nil
}

// ResetToPending moves an in_progress order back to pending.
func (s *service) ResetToPending(ctx context.Context, orderID int64) error {
	reset, err := s.repo.ResetIfInProgress(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resetting order")
	}
	if !reset {
		return pkgerrors.New(pkgerrors.CodeConflict, "order not in progress or already completed")
	}
	return nil
}

// CleanupUserProgress releases the employee's claimed-but-incomplete lines.
// Partial picked quantities stay recorded; affected in_progress orders return
// to pending so another picker can take over.
func (s *service) CleanupUserProgress(ctx context.Context, employeeID int64) (*CleanupResult, error) {
	if employeeID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee_id is required")
	}

	var cleaned int
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		lines, err := repo.ListClaimedIncomplete(ctx, employeeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing claimed lines")
		}

		for _, line := range lines {
			if err := repo.ClearClaim(ctx, line.OrderID, line.BarcodeID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "releasing claim")
			}
			if _, err := repo.ResetIfInProgress(ctx, line.OrderID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resetting order")
			}
		}
		cleaned = len(lines)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cleaned == 0 {
		return &CleanupResult{Message: "no incomplete work found for this employee"}, nil
	}
	return &CleanupResult{
		CleanedLines: cleaned,
		Message:      fmt.Sprintf("cleaned up %d incomplete line items", cleaned),
	}, nil
}

// EmployeeLog returns the employee's completed picks, most recent first.
func (s *service) EmployeeLog(ctx context.Context, employeeID int64) ([]EmployeeLogEntry, error) {
	if employeeID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee_id is required")
	}

	entries, err := s.repo.EmployeeLog(ctx, employeeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading employee log")
	}
	if len(entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no picking history found for this employee")
	}
	return entries, nil
}

func ledgerHasBin(locations []models.ItemLocation, bin string) bool {
	needle := strings.TrimSpace(bin)
	for _, loc := range locations {
		if strings.EqualFold(strings.TrimSpace(loc.Bin), needle) {
			return true
		}
	}
	return false
}
