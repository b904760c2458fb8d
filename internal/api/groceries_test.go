package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func TestCreateGroceryRequestValidate(t *testing.T) {
	valid := createGroceryRequest{
		Name:        "Milk",
		Description: "Whole milk, 1 liter",
		Price:       decimalPtr(decimal.NewFromInt(3)),
		Stock:       intPtr(10),
	}
	assert.NoError(t, valid.validate())

	short := valid
	short.Name = "Mi"
	assert.EqualError(t, short.validate(), "name should be minimum 3 characters.")

	noDesc := valid
	noDesc.Description = ""
	assert.EqualError(t, noDesc.validate(), "description should be minimum 3 characters.")

	noPrice := valid
	noPrice.Price = nil
	assert.EqualError(t, noPrice.validate(), "price should be minimum 1.")

	cheap := valid
	cheap.Price = decimalPtr(decimal.NewFromFloat(0.5))
	assert.EqualError(t, cheap.validate(), "price should be minimum 1.")

	zeroStock := valid
	zeroStock.Stock = intPtr(0)
	assert.EqualError(t, zeroStock.validate(), "stock should be minimum 1.")

	// stock is optional
	noStock := valid
	noStock.Stock = nil
	assert.NoError(t, noStock.validate())
}

func TestUpdateGroceryRequestValidate(t *testing.T) {
	// all fields optional
	assert.NoError(t, updateGroceryRequest{}.validate())

	assert.NoError(t, updateGroceryRequest{
		Name:  strPtr("Bread"),
		Price: decimalPtr(decimal.NewFromInt(2)),
	}.validate())

	assert.EqualError(t, updateGroceryRequest{Name: strPtr("ab")}.validate(),
		"name should be minimum 3 characters.")
	assert.EqualError(t, updateGroceryRequest{Description: strPtr("xy")}.validate(),
		"description should be minimum 3 characters.")
	assert.EqualError(t, updateGroceryRequest{Price: decimalPtr(decimal.Zero)}.validate(),
		"price should be minimum 1.")
	assert.EqualError(t, updateGroceryRequest{Stock: intPtr(0)}.validate(),
		"stock should be minimum 1.")
}
