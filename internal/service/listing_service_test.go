package service

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
	"github.com/GTDGit/gtd_storefront/internal/models"
)

func product(id int, name, category, price string, qty int) models.Product {
	return models.Product{
		ID:            id,
		SkuCode:       "SKU-" + name,
		Name:          name,
		Category:      category,
		Price:         dec(price),
		Rating:        4,
		InStock:       qty > 0,
		StockQuantity: qty,
		Warranty:      "1y",
		DeliveryTiers: pq.StringArray{"standard"},
		IsActive:      true,
		CreatedAt:     time.Date(2025, 1, id, 0, 0, 0, 0, time.UTC),
	}
}

func catalogFixture() []models.Product {
	return []models.Product{
		product(1, "Scout", "Drones", "1200", 15),
		product(2, "Falcon", "Drones", "3400", 4),
		product(3, "Lidar", "Sensors", "800", 0),
		product(4, "Arm", "Robotics", "5600", 30),
		product(5, "Broken", "Sensors", "-1", 3),
	}
}

func TestListingService_Query(t *testing.T) {
	svc := NewListingService[models.Product]("products", newFakeProductStore(catalogFixture()...), 10)

	res, err := svc.Query(context.Background(), catalog.Query{
		Criteria: catalog.Criteria{Category: "Drones"},
		Sort:     catalog.SortByPrice,
		Page:     1,
		PageSize: 10,
	})

	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Scout", res.Items[0].Name)
	assert.Equal(t, "Falcon", res.Items[1].Name)
	assert.Equal(t, 2, res.TotalItems)
	assert.Equal(t, 1, res.TotalPages)
}

func TestListingService_ReportsAnomalies(t *testing.T) {
	svc := NewListingService[models.Product]("products", newFakeProductStore(catalogFixture()...), 10)

	res, err := svc.Query(context.Background(), catalog.Query{Sort: catalog.SortByName, Page: 1, PageSize: 10})

	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalItems)
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, "5", res.Anomalies[0].ID)
}

func TestListingService_DefaultLowStockThreshold(t *testing.T) {
	svc := NewListingService[models.Product]("products", newFakeProductStore(catalogFixture()...), 10)

	res, err := svc.Query(context.Background(), catalog.Query{
		Criteria: catalog.Criteria{Stock: catalog.StockLowStock},
		Sort:     catalog.SortByName,
		Page:     1,
		PageSize: 10,
	})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Falcon", res.Items[0].Name)
}

func TestListingService_ZeroLowStockThresholdIsHonored(t *testing.T) {
	svc := NewListingService[models.Product]("products", newFakeProductStore(catalogFixture()...), 0)

	res, err := svc.Query(context.Background(), catalog.Query{
		Criteria: catalog.Criteria{Stock: catalog.StockLowStock, LowStockThreshold: 100},
		Sort:     catalog.SortByName,
		Page:     1,
		PageSize: 10,
	})

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.TotalItems)

	summary, err := svc.Facets(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Stock[catalog.StockLowStock])
}

func TestListingService_SourceError(t *testing.T) {
	store := newFakeProductStore()
	store.failAll = errStoreDown
	svc := NewListingService[models.Product]("products", store, 10)

	_, err := svc.Query(context.Background(), catalog.Query{Sort: catalog.SortByName, Page: 1, PageSize: 10})

	assert.ErrorIs(t, err, errStoreDown)
}

func TestListingService_Facets(t *testing.T) {
	svc := NewListingService[models.Product]("products", newFakeProductStore(catalogFixture()...), 10)

	summary, err := svc.Facets(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, []CategoryCount{{"Drones", 2}, {"Robotics", 1}, {"Sensors", 1}}, summary.Categories)
	require.NotNil(t, summary.Price)
	assert.True(t, summary.Price.Min.Equal(dec("800")))
	assert.True(t, summary.Price.Max.Equal(dec("5600")))
	assert.Equal(t, []string{"1y"}, summary.Facets[models.FacetWarranty])
	assert.Equal(t, 3, summary.Stock[catalog.StockInStock])
	assert.Equal(t, 1, summary.Stock[catalog.StockLowStock])
	assert.Equal(t, 1, summary.Stock[catalog.StockOutOfStock])
}

func TestListingService_ProjectsByBudgetRange(t *testing.T) {
	projects := []models.Project{
		{ID: 1, Title: "Warehouse robots", Category: "Automation", Budget: dec("50000"), DurationMonths: 6, TeamSize: 4, Technologies: pq.StringArray{"ROS", "Go"}},
		{ID: 2, Title: "Crop survey", Category: "Drones", Budget: dec("12000"), DurationMonths: 2, TeamSize: 2, Technologies: pq.StringArray{"PX4"}},
		{ID: 3, Title: "Vision QA", Category: "Automation", Budget: dec("80000"), DurationMonths: 9, TeamSize: 6, Technologies: pq.StringArray{"OpenCV", "Go"}},
	}
	svc := NewListingService[models.Project]("projects", staticSource[models.Project](projects), 10)

	res, err := svc.Query(context.Background(), catalog.Query{
		Criteria: catalog.Criteria{
			Ranges: map[string]catalog.Range{models.RangeBudget: catalog.NewRange(dec("10000"), dec("60000"))},
			Facets: map[string][]string{models.FacetTech: {"Go"}},
		},
		Sort:     catalog.SortByName,
		Page:     1,
		PageSize: 10,
	})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Warehouse robots", res.Items[0].Title)
}

type staticSource[T catalog.Item] []T

func (s staticSource[T]) All(context.Context) ([]T, error) { return s, nil }
