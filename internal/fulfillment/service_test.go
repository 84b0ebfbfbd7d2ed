package fulfillment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

func loadOrder(t *testing.T, conn *gorm.DB, orderID int64) models.Order {
	t.Helper()

	var order models.Order
	require.NoError(t, conn.First(&order, "order_id = ?", orderID).Error)
	return order
}

func loadLine(t *testing.T, conn *gorm.DB, orderID int64, barcodeID string) models.OrderLine {
	t.Helper()

	var line models.OrderLine
	require.NoError(t, conn.First(&line, "order_id = ? AND barcode_id = ?", orderID, barcodeID).Error)
	return line
}

func loadItemState(t *testing.T, conn *gorm.DB, barcodeID string) (int, map[string]int) {
	t.Helper()

	var item models.Item
	require.NoError(t, conn.First(&item, "barcode_id = ?", barcodeID).Error)

	var locations []models.ItemLocation
	require.NoError(t, conn.Where("item_barcode_id = ?", barcodeID).Find(&locations).Error)

	bins := make(map[string]int, len(locations))
	for _, loc := range locations {
		bins[loc.Bin] = loc.Quantity
	}
	return item.TotalQuantity, bins
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func requireErrorCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestCreateOrder(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, CreateOrderInput{Lines: []OrderLineInput{
		{BarcodeID: "B001", Quantity: 4},
		{BarcodeID: "B002", Quantity: 2},
	}})
	require.NoError(t, err)
	require.NotZero(t, created.OrderID)

	order := loadOrder(t, conn, created.OrderID)
	assert.Equal(t, enums.OrderStatusPending, order.Status)

	var lines []models.OrderLine
	require.NoError(t, conn.Where("order_id = ?", created.OrderID).Order("barcode_id").Find(&lines).Error)
	require.Len(t, lines, 2)
	assert.Equal(t, "B001", lines[0].BarcodeID)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Zero(t, lines[0].PickedQuantity)
	assert.Nil(t, lines[0].PickedBy)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _ := newFulfillmentService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, CreateOrderInput{})
	requireErrorCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{Lines: []OrderLineInput{{BarcodeID: "B001", Quantity: 0}}})
	requireErrorCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{Lines: []OrderLineInput{{BarcodeID: "  ", Quantity: 1}}})
	requireErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestRecordPickMatchesBinCaseInsensitively(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	area := seedArea(t, conn, "Zone A")
	picker := seedEmployee(t, conn, "Rosa", "Delgado", "rosa@example.com")
	seedItem(t, conn, "B001", "Widget", 10, []models.ItemLocation{
		{Bin: "A1", Quantity: 10, Type: "primary", AreaID: area.ID},
	})
	order := seedOrder(t, conn, enums.OrderStatusInProgress, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 10},
	})

	line, err := svc.RecordPick(ctx, PickInput{
		OrderID:   order.ID,
		BarcodeID: "B001",
		Quantity:  3,
		Location:  "a1",
		PickedBy:  picker.AccountID,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, line.PickedQuantity)
	require.NotNil(t, line.PickedBy)
	assert.Equal(t, picker.AccountID, *line.PickedBy)
	assert.Nil(t, line.CompletedAt)

	total, bins := loadItemState(t, conn, "B001")
	assert.Equal(t, 7, total)
	assert.Equal(t, 7, bins["A1"])
}

func TestRecordPickCompletesLineAndOrder(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	area := seedArea(t, conn, "Zone A")
	picker := seedEmployee(t, conn, "Rosa", "Delgado", "rosa@example.com")
	seedItem(t, conn, "B001", "Widget", 10, []models.ItemLocation{
		{Bin: "A1", Quantity: 10, Type: "primary", AreaID: area.ID},
	})
	order := seedOrder(t, conn, enums.OrderStatusInProgress, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 10},
	})

	line, err := svc.RecordPick(ctx, PickInput{
		OrderID:   order.ID,
		BarcodeID: "B001",
		Quantity:  10,
		Location:  "A1",
		PickedBy:  picker.AccountID,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, line.PickedQuantity)
	require.NotNil(t, line.CompletedAt)

	reloaded := loadOrder(t, conn, order.ID)
	assert.Equal(t, enums.OrderStatusCompleted, reloaded.Status)

	total, bins := loadItemState(t, conn, "B001")
	assert.Zero(t, total)
	assert.Zero(t, bins["A1"])
}

func TestRecordPickPartialLeavesOrderOpen(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	area := seedArea(t, conn, "Zone A")
	picker := seedEmployee(t, conn, "Rosa", "Delgado", "rosa@example.com")
	seedItem(t, conn, "B001", "Widget", 10, []models.ItemLocation{
		{Bin: "A1", Quantity: 10, Type: "primary", AreaID: area.ID},
	})
	seedItem(t, conn, "B002", "Gadget", 5, []models.ItemLocation{
		{Bin: "A2", Quantity: 5, Type: "primary", AreaID: area.ID},
	})
	order := seedOrder(t, conn, enums.OrderStatusInProgress, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 10},
		{BarcodeID: "B002", Quantity: 5},
	})

	_, err := svc.RecordPick(ctx, PickInput{
		OrderID:   order.ID,
		BarcodeID: "B001",
		Quantity:  10,
		Location:  "A1",
		PickedBy:  picker.AccountID,
	})
	require.NoError(t, err)

	reloaded := loadOrder(t, conn, order.ID)
	assert.Equal(t, enums.OrderStatusInProgress, reloaded.Status)
}

func TestRecordPickRejectsUnknownLocation(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	area := seedArea(t, conn, "Zone A")
	picker := seedEmployee(t, conn, "Rosa", "Delgado", "rosa@example.com")
	seedItem(t, conn, "B001", "Widget", 10, []models.ItemLocation{
		{Bin: "A1", Quantity: 10, Type: "primary", AreaID: area.ID},
	})
	order := seedOrder(t, conn, enums.OrderStatusInProgress, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 10},
	})

	_, err := svc.RecordPick(ctx, PickInput{
		OrderID:   order.ID,
		BarcodeID: "B001",
		Quantity:  3,
		Location:  "Z9",
		PickedBy:  picker.AccountID,
	})
	requireErrorCode(t, err, pkgerrors.CodeValidation)

	line := loadLine(t, conn, order.ID, "B001")
	assert.Zero(t, line.PickedQuantity)
	total, bins := loadItemState(t, conn, "B001")
	assert.Equal(t, 10, total)
	assert.Equal(t, 10, bins["A1"])
}

func TestRecordPickRejectsOverPick(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	area := seedArea(t, conn, "Zone A")
	picker := seedEmployee(t, conn, "Rosa", "Delgado", "rosa@example.com")
	seedItem(t, conn, "B001", "Widget", 10, []models.ItemLocation{
		{Bin: "A1", Quantity: 10, Type: "primary", AreaID: area.ID},
	})
	picked := 8
	order := seedOrder(t, conn, enums.OrderStatusInProgress, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 10, PickedQuantity: picked, PickedBy: &picker.AccountID},
	})

	_, err := svc.RecordPick(ctx, PickInput{
		OrderID:   order.ID,
		BarcodeID: "B001",
		Quantity:  5,
		Location:  "A1",
		PickedBy:  picker.AccountID,
	})
	requireErrorCode(t, err, pkgerrors.CodeValidation)

	line := loadLine(t, conn, order.ID, "B001")
	assert.Equal(t, picked, line.PickedQuantity)
	total, _ := loadItemState(t, conn, "B001")
	assert.Equal(t, 10, total)
}

func TestRecordPickValidation(t *testing.T) {
	svc, _, _ := newFulfillmentService(t)
	ctx := context.Background()

	_, err := svc.RecordPick(ctx, PickInput{OrderID: 1, BarcodeID: "B001", Quantity: 0, Location: "A1", PickedBy: 1})
	requireErrorCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.RecordPick(ctx, PickInput{OrderID: 1, BarcodeID: "B001", Quantity: 3, Location: "  ", PickedBy: 1})
	requireErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestRecordPickMissingItemAndLine(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	_, err := svc.RecordPick(ctx, PickInput{OrderID: 99, BarcodeID: "NOPE", Quantity: 1, Location: "A1", PickedBy: 1})
	requireErrorCode(t, err, pkgerrors.CodeNotFound)

	area := seedArea(t, conn, "Zone A")
	seedItem(t, conn, "B001", "Widget", 10, []models.ItemLocation{
		{Bin: "A1", Quantity: 10, Type: "primary", AreaID: area.ID},
	})

	_, err = svc.RecordPick(ctx, PickInput{OrderID: 99, BarcodeID: "B001", Quantity: 1, Location: "A1", PickedBy: 1})
	requireErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestClaimLineIdempotentPerPicker(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	first := seedEmployee(t, conn, "Rosa", "Delgado", "rosa@example.com")
	second := seedEmployee(t, conn, "Theo", "Marsh", "theo@example.com")
	order := seedOrder(t, conn, enums.OrderStatusPending, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 10},
	})

	line, err := svc.ClaimLine(ctx, order.ID, "B001", first.AccountID)
	require.NoError(t, err)
	require.NotNil(t, line.PickedBy)
	assert.Equal(t, first.AccountID, *line.PickedBy)

	// the order promotes off pending as a side effect
	assert.Equal(t, enums.OrderStatusInProgress, loadOrder(t, conn, order.ID).Status)

	// reclaiming your own line succeeds
	line, err = svc.ClaimLine(ctx, order.ID, "B001", first.AccountID)
	require.NoError(t, err)
	assert.Equal(t, first.AccountID, *line.PickedBy)

	// a different picker conflicts
	_, err = svc.ClaimLine(ctx, order.ID, "B001", second.AccountID)
	requireErrorCode(t, err, pkgerrors.CodeConflict)

	stored := loadLine(t, conn, order.ID, "B001")
	require.NotNil(t, stored.PickedBy)
	assert.Equal(t, first.AccountID, *stored.PickedBy)
}

func TestClaimLineNotFound(t *testing.T) {
	svc, _, _ := newFulfillmentService(t)

	_, err := svc.ClaimLine(context.Background(), 40, "B404", 1)
	requireErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestSelectForAreasStrictContainment(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	zoneA := seedArea(t, conn, "Zone A")
	zoneB := seedArea(t, conn, "Zone B")

	seedItem(t, conn, "B001", "Widget", 10, []models.ItemLocation{
		{Bin: "A1", Quantity: 10, Type: "primary", AreaID: zoneA.ID},
	})
	seedItem(t, conn, "B002", "Gadget", 10, []models.ItemLocation{
		{Bin: "B1", Quantity: 5, Type: "primary", AreaID: zoneA.ID},
		{Bin: "B2", Quantity: 5, Type: "overflow", AreaID: zoneB.ID},
	})

	contained := seedOrder(t, conn, enums.OrderStatusPending, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 2},
	})
	straddling := seedOrder(t, conn, enums.OrderStatusPending, []models.OrderLine{
		{BarcodeID: "B002", Quantity: 2},
	})

	// only the fully contained order qualifies for zone A alone
	orderID, err := svc.SelectForAreas(ctx, []int64{zoneA.ID})
	require.NoError(t, err)
	assert.Equal(t, contained.ID, orderID)
	assert.Equal(t, enums.OrderStatusInProgress, loadOrder(t, conn, orderID).Status)

	// the straddling order needs both zones
	_, err = svc.SelectForAreas(ctx, []int64{zoneA.ID})
	requireErrorCode(t, err, pkgerrors.CodeNotFound)

	orderID, err = svc.SelectForAreas(ctx, []int64{zoneA.ID, zoneB.ID})
	require.NoError(t, err)
	assert.Equal(t, straddling.ID, orderID)
}

func TestSelectForAreasIgnoresItemsWithoutLedger(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	zoneA := seedArea(t, conn, "Zone A")
	seedItem(t, conn, "B001", "Widget", 0, nil)
	seedOrder(t, conn, enums.OrderStatusPending, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 2},
	})

	_, err := svc.SelectForAreas(ctx, []int64{zoneA.ID})
	requireErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestSelectForAreasSkipsReservedOrders(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	zoneA := seedArea(t, conn, "Zone A")
	seedItem(t, conn, "B001", "Widget", 10, []models.ItemLocation{
		{Bin: "A1", Quantity: 10, Type: "primary", AreaID: zoneA.ID},
	})

	reserved := seedOrder(t, conn, enums.OrderStatusInProgress, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 1},
	})
	open := seedOrder(t, conn, enums.OrderStatusPending, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 1},
	})

	orderID, err := svc.SelectForAreas(ctx, []int64{zoneA.ID})
	require.NoError(t, err)
	assert.Equal(t, open.ID, orderID)
	assert.NotEqual(t, reserved.ID, orderID)
}

func TestResetToPendingTransitions(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	inProgress := seedOrder(t, conn, enums.OrderStatusInProgress, nil)
	require.NoError(t, svc.ResetToPending(ctx, inProgress.ID))
	assert.Equal(t, enums.OrderStatusPending, loadOrder(t, conn, inProgress.ID).Status)

	pending := seedOrder(t, conn, enums.OrderStatusPending, nil)
	requireErrorCode(t, svc.ResetToPending(ctx, pending.ID), pkgerrors.CodeConflict)

	completed := seedOrder(t, conn, enums.OrderStatusCompleted, nil)
	requireErrorCode(t, svc.ResetToPending(ctx, completed.ID), pkgerrors.CodeConflict)
	assert.Equal(t, enums.OrderStatusCompleted, loadOrder(t, conn, completed.ID).Status)
}

func TestCleanupUserProgressPreservesPartialPicks(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	picker := seedEmployee(t, conn, "Rosa", "Delgado", "rosa@example.com")
	order := seedOrder(t, conn, enums.OrderStatusInProgress, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 10, PickedQuantity: 3, PickedBy: &picker.AccountID},
	})

	result, err := svc.CleanupUserProgress(ctx, picker.AccountID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CleanedLines)

	line := loadLine(t, conn, order.ID, "B001")
	assert.Nil(t, line.PickedBy)
	assert.Equal(t, 3, line.PickedQuantity)
	assert.Equal(t, enums.OrderStatusPending, loadOrder(t, conn, order.ID).Status)
}

func TestCleanupUserProgressSkipsCompletedLines(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	picker := seedEmployee(t, conn, "Rosa", "Delgado", "rosa@example.com")
	order := seedOrder(t, conn, enums.OrderStatusCompleted, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 5, PickedQuantity: 5, PickedBy: &picker.AccountID},
	})

	result, err := svc.CleanupUserProgress(ctx, picker.AccountID)
	require.NoError(t, err)
	assert.Zero(t, result.CleanedLines)

	line := loadLine(t, conn, order.ID, "B001")
	require.NotNil(t, line.PickedBy)
	assert.Equal(t, picker.AccountID, *line.PickedBy)
	assert.Equal(t, enums.OrderStatusCompleted, loadOrder(t, conn, order.ID).Status)
}

func TestEmployeeLog(t *testing.T) {
	svc, _, conn := newFulfillmentService(t)
	ctx := context.Background()

	picker := seedEmployee(t, conn, "Rosa", "Delgado", "rosa@example.com")

	_, err := svc.EmployeeLog(ctx, picker.AccountID)
	requireErrorCode(t, err, pkgerrors.CodeNotFound)

	area := seedArea(t, conn, "Zone A")
	seedItem(t, conn, "B001", "Widget", 10, []models.ItemLocation{
		{Bin: "A1", Quantity: 10, Type: "primary", AreaID: area.ID},
	})
	seedItem(t, conn, "B002", "Gadget", 10, []models.ItemLocation{
		{Bin: "A2", Quantity: 10, Type: "primary", AreaID: area.ID},
	})

	earlier := mustTime(t, "2026-08-01T09:00:00Z")
	later := mustTime(t, "2026-08-02T14:30:00Z")
	seedOrder(t, conn, enums.OrderStatusCompleted, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 4, PickedQuantity: 4, PickedBy: &picker.AccountID, CompletedAt: &earlier},
	})
	seedOrder(t, conn, enums.OrderStatusCompleted, []models.OrderLine{
		{BarcodeID: "B002", Quantity: 2, PickedQuantity: 2, PickedBy: &picker.AccountID, CompletedAt: &later},
	})
	// claimed but incomplete lines stay out of the log
	seedOrder(t, conn, enums.OrderStatusInProgress, []models.OrderLine{
		{BarcodeID: "B001", Quantity: 9, PickedQuantity: 1, PickedBy: &picker.AccountID},
	})

	entries, err := svc.EmployeeLog(ctx, picker.AccountID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "B002", entries[0].BarcodeID)
	assert.Equal(t, "Gadget", entries[0].ItemName)
	assert.Equal(t, "Rosa Delgado", entries[0].EmployeeName)
	assert.Equal(t, "B001", entries[1].BarcodeID)
}
