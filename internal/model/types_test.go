package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaterialLowStock(t *testing.T) {
	assert.True(t, Material{StockLevel: 4, ReorderLevel: 5}.LowStock())
	assert.True(t, Material{StockLevel: 5, ReorderLevel: 5}.LowStock())
	assert.True(t, Material{StockLevel: 0, ReorderLevel: 0}.LowStock(), "empty stock with no reorder level is still low")
	assert.False(t, Material{StockLevel: 6, ReorderLevel: 5}.LowStock())
	assert.False(t, Material{StockLevel: 3, ReorderLevel: 0}.LowStock())
}
