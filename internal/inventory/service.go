package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

// Service exposes item and location ledger operations.
type Service interface {
	Get(ctx context.Context, barcodeID string) (*ItemDTO, error)
	Receive(ctx context.Context, input ReceiveInput) (*ItemDTO, bool, error)
	Update(ctx context.Context, input UpdateInput) (*ItemDTO, error)
}

// LocationInput is one submitted ledger entry.
type LocationInput struct {
	Bin      string
	Quantity int
	Type     string
	AreaID   int64
}

// ReceiveInput holds the validated payload for receiving stock. Quantity is
// added to the existing total; a non-empty Locations list replaces the ledger
// wholesale.
type ReceiveInput struct {
	BarcodeID   string
	BarcodeType string
	Name        string
	Description *string
	Locations   []LocationInput
	Quantity    int
}

// UpdateInput overwrites an existing item's mutable fields, ledger included.
type UpdateInput struct {
	BarcodeID     string
	Name          string
	Description   *string
	Locations     []LocationInput
	TotalQuantity int
}

type areaNamer interface {
	LookupNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	areaRepo areaNamer
}

// NewService constructs the item service.
func NewService(repo *Repository, dbClient *db.Client, areaRepo areaNamer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if areaRepo == nil {
		return nil, fmt.Errorf("area repository required")
	}
	return &service{repo: repo, dbClient: dbClient, areaRepo: areaRepo}, nil
}

// Get loads an item with its ledger, each entry labeled with its area name.
func (s *service) Get(ctx context.Context, barcodeID string) (*ItemDTO, error) {
	if strings.TrimSpace(barcodeID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode_id is required")
	}

	item, err := s.repo.FindWithLedger(ctx, barcodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
	}

	return s.expand(ctx, item)
}

// Receive creates the item on first receipt or adds stock to an existing one.
// The returned bool reports whether a new item was created.
func (s *service) Receive(ctx context.Context, input ReceiveInput) (*ItemDTO, bool, error) {
	if strings.TrimSpace(input.BarcodeID) == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "barcode_id is required")
	}
	if err := validateLedger(input.Locations); err != nil {
		return nil, false, err
	}

	var (
		created bool
		stored  *models.Item
	)
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		_, err := repo.FindWithLedger(ctx, input.BarcodeID)
		switch {
		case err == nil:
			if err := repo.AddTotalQuantity(ctx, input.BarcodeID, input.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adding received quantity")
			}
			if len(input.Locations) > 0 {
				if err := repo.ReplaceLedger(ctx, input.BarcodeID, buildLedgerRows(input.BarcodeID, input.Locations)); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replacing location ledger")
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			item := &models.Item{
				BarcodeID:     input.BarcodeID,
				BarcodeType:   input.BarcodeType,
				Name:          input.Name,
				Description:   input.Description,
				TotalQuantity: input.Quantity,
				Locations:     buildLedgerRows(input.BarcodeID, input.Locations),
			}
			if err := repo.Create(ctx, item); err != nil {
				// two receives for the same new barcode can race between the
				// lookup and the insert
				if db.IsUniqueViolation(err) {
					return pkgerrors.New(pkgerrors.CodeConflict, "item was created by a concurrent receive")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating item")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
		}

		stored, err = repo.FindWithLedger(ctx, input.BarcodeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading item")
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	dto, err := s.expand(ctx, stored)
	if err != nil {
		return nil, false, err
	}
	return dto, created, nil
}

// Update overwrites the item's name, description, ledger, and total.
func (s *service) Update(ctx context.Context, input UpdateInput) (*ItemDTO, error) {
	if strings.TrimSpace(input.BarcodeID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode_id is required")
	}
	if err := validateLedger(input.Locations); err != nil {
		return nil, err
	}

	var stored *models.Item
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindWithLedger(ctx, input.BarcodeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
		}

		if err := repo.UpdateFields(ctx, input.BarcodeID, input.Name, input.Description, input.TotalQuantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating item")
		}
		if err := repo.ReplaceLedger(ctx, input.BarcodeID, buildLedgerRows(input.BarcodeID, input.Locations)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replacing location ledger")
		}

		var err error
		stored, err = repo.FindWithLedger(ctx, input.BarcodeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.expand(ctx, stored)
}

func (s *service) expand(ctx context.Context, item *models.Item) (*ItemDTO, error) {
	ids := make([]int64, 0, len(item.Locations))
	seen := make(map[int64]struct{}, len(item.Locations))
	for _, loc := range item.Locations {
		if _, ok := seen[loc.AreaID]; ok {
			continue
		}
		seen[loc.AreaID] = struct{}{}
		ids = append(ids, loc.AreaID)
	}

	names, err := s.areaRepo.LookupNames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving area names")
	}
	return toItemDTO(item, names), nil
}

func validateLedger(entries []LocationInput) error {
	// bins are unique within a ledger under case-insensitive matching, the
	// same matching picks use to find them
	seen := make(map[string]int, len(entries))
	for i, entry := range entries {
		if strings.TrimSpace(entry.Type) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "each location must have a type").
				WithDetails(map[string]any{"index": i, "field": "type"})
		}
		if entry.AreaID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "each location must have a valid area selected").
				WithDetails(map[string]any{"index": i, "field": "area_id"})
		}
		if entry.Quantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "location quantity cannot be negative").
				WithDetails(map[string]any{"index": i, "field": "quantity"})
		}
		key := strings.ToLower(strings.TrimSpace(entry.Bin))
		if first, dup := seen[key]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "locations list the same bin more than once").
				WithDetails(map[string]any{"index": i, "duplicate_of": first, "field": "bin"})
		}
		seen[key] = i
	}
	return nil
}

func buildLedgerRows(barcodeID string, entries []LocationInput) []models.ItemLocation {
	rows := make([]models.ItemLocation, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, models.ItemLocation{
			ItemBarcodeID: barcodeID,
			Bin:           strings.TrimSpace(entry.Bin),
			Quantity:      entry.Quantity,
			Type:          strings.TrimSpace(entry.Type),
			AreaID:        entry.AreaID,
			Position:      i,
		})
	}
	return rows
}
