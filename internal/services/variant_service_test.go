package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"preseason-api/internal/models"
)

// MockCatalog covers both the variant and the order views of the catalog
type MockCatalog struct {
	mock.Mock
}

var (
	_ VariantCatalog = (*MockCatalog)(nil)
	_ OrderCatalog   = (*MockCatalog)(nil)
)

func (m *MockCatalog) FindVariant(ctx context.Context, brandID uuid.UUID, baseName, size, color string) (*models.Product, error) {
	args := m.Called(ctx, brandID, baseName, size, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalog) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Brand), args.Error(1)
}

func (m *MockCatalog) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockCatalog) GetSeason(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Season), args.Error(1)
}

type MockOrderStore struct {
	mock.Mock
}

var _ OrderStore = (*MockOrderStore)(nil)

func (m *MockOrderStore) GetWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderStore) CreateItems(ctx context.Context, items []models.OrderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockOrderStore) RecalculateTotal(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderStore) CountOrderNumbersLike(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func variantProduct(brandID uuid.UUID, name, size, color string, cost float64) *models.Product {
	return &models.Product{
		ID:            uuid.New(),
		BrandID:       brandID,
		UPC:           uuid.NewString(),
		Name:          name,
		Size:          size,
		Color:         color,
		WholesaleCost: &cost,
	}
}

func TestBuildColorMapping(t *testing.T) {
	brandID := uuid.New()
	families := models.GroupIntoFamilies([]models.Product{
		*variantProduct(brandID, "Jacket", "S", "White", 50),
		*variantProduct(brandID, "Jacket", "M", "White", 50),
		*variantProduct(brandID, "Jacket", "L", "White", 50),
		*variantProduct(brandID, "Beanie", "OS", "Red", 12),
	})

	mapping := BuildColorMapping(families, map[string]models.ColorSwap{
		"Jacket": {From: "White", To: "Black"},
	}, nil)

	require.Len(t, mapping, 1)
	sizes := mapping["Jacket"]
	require.Len(t, sizes, 3)
	for _, size := range []string{"S", "M", "L"} {
		assert.Equal(t, models.ColorSwap{From: "White", To: "Black"}, sizes[size])
	}
	// Beanie had no choice, so it is absent.
	_, ok := mapping["Beanie"]
	assert.False(t, ok)
}

func TestBuildColorMappingSkipWinsOverChoice(t *testing.T) {
	brandID := uuid.New()
	families := models.GroupIntoFamilies([]models.Product{
		*variantProduct(brandID, "Jacket", "S", "White", 50),
	})

	mapping := BuildColorMapping(families, map[string]models.ColorSwap{
		"Jacket": {From: "White", To: "Black"},
	}, []string{"Jacket"})

	assert.Empty(t, mapping)
}

func copyFixture(t *testing.T) (uuid.UUID, *models.Order, *MockCatalog, *MockOrderStore, *VariantService) {
	t.Helper()
	brandID := uuid.New()
	source := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "JUL25-PRA-SLC",
		SeasonID:    uuid.New(),
		BrandID:     brandID,
		LocationID:  uuid.New(),
		ShipDate:    time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		OrderType:   models.OrderTypePreseason,
		Status:      models.OrderStatusSubmitted,
	}

	pant32 := variantProduct(brandID, "Zion Pant", "32", "White", 42.50)
	pant34 := variantProduct(brandID, "Zion Pant", "34", "White", 42.50)
	harness := variantProduct(brandID, "Corax Harness", "M", "Blue", 35)
	source.Items = []models.OrderItem{
		{OrderID: source.ID, ProductID: pant32.ID, Product: pant32, Quantity: 3, UnitCost: 42.50},
		{OrderID: source.ID, ProductID: pant34.ID, Product: pant34, Quantity: 2, UnitCost: 42.50},
		{OrderID: source.ID, ProductID: harness.ID, Product: harness, Quantity: 4, UnitCost: 35},
	}

	catalog := new(MockCatalog)
	orders := new(MockOrderStore)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return brandID, source, catalog, orders, NewVariantService(catalog, orders, logger)
}

func TestCopyOrderRemapsVariants(t *testing.T) {
	brandID, source, catalog, orders, service := copyFixture(t)
	targetLocation := &models.Location{ID: uuid.New(), Name: "Boulder", Code: "BDR"}

	orders.On("GetWithItems", mock.Anything, source.ID).Return(source, nil)
	catalog.On("GetBrand", mock.Anything, brandID).Return(&models.Brand{ID: brandID, Name: "Prana", Code: "PRA"}, nil)
	catalog.On("GetLocation", mock.Anything, targetLocation.ID).Return(targetLocation, nil)
	orders.On("CountOrderNumbersLike", mock.Anything, "JUL25-PRA-BDR").Return(int64(0), nil)

	black32 := variantProduct(brandID, "Zion Pant", "32", "Black", 43.00)
	catalog.On("FindVariant", mock.Anything, brandID, "Zion Pant", "32", "Black").Return(black32, nil)
	// The 34 has no black variant in the catalog.
	catalog.On("FindVariant", mock.Anything, brandID, "Zion Pant", "34", "Black").Return(nil, nil)

	var targetID uuid.UUID
	orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*models.Order)
			order.ID = uuid.New()
			targetID = order.ID
			assert.Equal(t, "JUL25-PRA-BDR", order.OrderNumber)
			assert.Equal(t, models.OrderStatusDraft, order.Status)
		}).Return(nil)

	orders.On("CreateItems", mock.Anything, mock.MatchedBy(func(items []models.OrderItem) bool {
		return len(items) == 2
	})).Return(nil)
	orders.On("RecalculateTotal", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)
	orders.On("GetWithItems", mock.Anything, mock.MatchedBy(func(id uuid.UUID) bool {
		return id == targetID
	})).Return(&models.Order{OrderNumber: "JUL25-PRA-BDR"}, nil)

	result, err := service.CopyOrder(context.Background(), source.ID, models.CopyOrderRequest{
		TargetLocationID: targetLocation.ID,
		ColorChoices: map[string]models.ColorSwap{
			"Zion Pant": {From: "White", To: "Black"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsCopied)
	assert.Equal(t, 1, result.ItemsSkipped)
	catalog.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestCopyOrderSkipsFamilies(t *testing.T) {
	brandID, source, catalog, orders, service := copyFixture(t)
	targetLocation := &models.Location{ID: uuid.New(), Name: "Boulder", Code: "BDR"}

	orders.On("GetWithItems", mock.Anything, source.ID).Return(source, nil)
	catalog.On("GetBrand", mock.Anything, brandID).Return(&models.Brand{ID: brandID, Name: "Prana", Code: "PRA"}, nil)
	catalog.On("GetLocation", mock.Anything, targetLocation.ID).Return(targetLocation, nil)
	orders.On("CountOrderNumbersLike", mock.Anything, "JUL25-PRA-BDR").Return(int64(0), nil)

	orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Order).ID = uuid.New()
		}).Return(nil)
	orders.On("CreateItems", mock.Anything, mock.MatchedBy(func(items []models.OrderItem) bool {
		// Only the harness survives; pants are skip-listed.
		return len(items) == 1 && items[0].Quantity == 4
	})).Return(nil)
	orders.On("RecalculateTotal", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)
	orders.On("GetWithItems", mock.Anything, mock.MatchedBy(func(id uuid.UUID) bool {
		return id != source.ID
	})).Return(&models.Order{}, nil)

	result, err := service.CopyOrder(context.Background(), source.ID, models.CopyOrderRequest{
		TargetLocationID: targetLocation.ID,
		SkipFamilies:     []string{"Zion Pant"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsCopied)
	assert.Equal(t, 2, result.ItemsSkipped)
	orders.AssertExpectations(t)
}

func TestCopyOrderUnmappedFamilyCopiedVerbatim(t *testing.T) {
	brandID, source, catalog, orders, service := copyFixture(t)
	targetLocation := &models.Location{ID: uuid.New(), Name: "Boulder", Code: "BDR"}

	orders.On("GetWithItems", mock.Anything, source.ID).Return(source, nil)
	catalog.On("GetBrand", mock.Anything, brandID).Return(&models.Brand{ID: brandID, Name: "Prana", Code: "PRA"}, nil)
	catalog.On("GetLocation", mock.Anything, targetLocation.ID).Return(targetLocation, nil)
	orders.On("CountOrderNumbersLike", mock.Anything, "JUL25-PRA-BDR").Return(int64(0), nil)

	orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Order).ID = uuid.New()
		}).Return(nil)
	orders.On("CreateItems", mock.Anything, mock.MatchedBy(func(items []models.OrderItem) bool {
		return len(items) == 3
	})).Return(nil)
	orders.On("RecalculateTotal", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)
	orders.On("GetWithItems", mock.Anything, mock.MatchedBy(func(id uuid.UUID) bool {
		return id != source.ID
	})).Return(&models.Order{}, nil)

	result, err := service.CopyOrder(context.Background(), source.ID, models.CopyOrderRequest{
		TargetLocationID: targetLocation.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.ItemsCopied)
	assert.Equal(t, 0, result.ItemsSkipped)
	// No color choices means no variant lookups at all.
	catalog.AssertNotCalled(t, "FindVariant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCopyOrderDuplicateNumberSuffix(t *testing.T) {
	brandID, source, catalog, orders, service := copyFixture(t)
	targetLocation := &models.Location{ID: uuid.New(), Name: "Boulder", Code: "BDR"}

	orders.On("GetWithItems", mock.Anything, source.ID).Return(source, nil)
	catalog.On("GetBrand", mock.Anything, brandID).Return(&models.Brand{ID: brandID, Name: "Prana", Code: "PRA"}, nil)
	catalog.On("GetLocation", mock.Anything, targetLocation.ID).Return(targetLocation, nil)
	orders.On("CountOrderNumbersLike", mock.Anything, "JUL25-PRA-BDR").Return(int64(1), nil)

	orders.On("Create", mock.Anything, mock.MatchedBy(func(order *models.Order) bool {
		return order.OrderNumber == "JUL25-PRA-BDR-2"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Order).ID = uuid.New()
	}).Return(nil)
	orders.On("CreateItems", mock.Anything, mock.Anything).Return(nil)
	orders.On("RecalculateTotal", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)
	orders.On("GetWithItems", mock.Anything, mock.MatchedBy(func(id uuid.UUID) bool {
		return id != source.ID
	})).Return(&models.Order{}, nil)

	_, err := service.CopyOrder(context.Background(), source.ID, models.CopyOrderRequest{
		TargetLocationID: targetLocation.ID,
	})

	require.NoError(t, err)
	orders.AssertExpectations(t)
}
