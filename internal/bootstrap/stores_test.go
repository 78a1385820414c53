package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
)

func TestOpenStores_Memory(t *testing.T) {
	stores, err := OpenStores(&config.Config{StoreDriver: config.StoreMemory}, zap.NewNop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, stores.Close()) }()

	user := &model.User{Name: "Owner", Email: "owner@example.com", Role: model.RoleAdmin, IsActive: true}
	require.NoError(t, stores.Users.Create(context.Background(), user))

	p := &model.Product{Name: "Cable", SKU: "CAB-1", Category: "Electronics", Unit: "pcs", IsActive: true, CreatedByID: user.ID}
	require.NoError(t, stores.Products.Create(context.Background(), p))

	got, err := stores.Products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "Owner", got.CreatedBy.Name)
}
