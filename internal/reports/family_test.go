package reports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ledgerdash/internal/errors"
	"ledgerdash/pkg/contracts/domain"
)

func saleLines() []domain.SaleLine {
	return []domain.SaleLine{
		{Family: "BOISSONS", SubFamily: "JUS", Quantity: dec(10), Delivery: dec(1000), Profit: dec(100), Seller: "KARIM", Period: "JANVIER"},
		{Family: "BOISSONS", SubFamily: "SODA", Quantity: dec(20), Delivery: dec(800), Profit: dec(120), Seller: "NADIR", Period: "JANVIER"},
		{Family: "BISCUITS", SubFamily: "GAUFRETTES", Quantity: dec(10), Delivery: dec(300), Profit: dec(60), Seller: "KARIM", Period: "FEVRIER"},
	}
}

func TestByFamily(t *testing.T) {
	groups := ByFamily(saleLines())
	require.Len(t, groups, 2)

	assert.Equal(t, "BOISSONS", groups[0].Label)
	assertDecimal(t, 30, groups[0].Quantity)
	assertDecimal(t, 1800, groups[0].Delivery)
	assertDecimal(t, 220, groups[0].Profit)
	assert.InDelta(t, 75.0, groups[0].Share, 1e-9)
	assert.InDelta(t, 25.0, groups[1].Share, 1e-9)
}

func TestBySubFamily_TiesByLabel(t *testing.T) {
	groups := BySubFamily(saleLines())
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"SODA", "GAUFRETTES", "JUS"}, []string{groups[0].Label, groups[1].Label, groups[2].Label})
}

func TestSellerTotals(t *testing.T) {
	groups := SellerTotals(saleLines())
	require.Len(t, groups, 2)
	assert.Equal(t, "KARIM", groups[0].Label)
	assertDecimal(t, 1300, groups[0].Delivery)
	assertDecimal(t, 160, groups[0].Profit)
}

func TestFilterSales(t *testing.T) {
	got, err := FilterSales(saleLines(), "karim", "Février")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BISCUITS", got[0].Family)

	all, err := FilterSales(saleLines(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = FilterSales(saleLines(), "", "Thermidor")
	assert.True(t, errors.Is(err, apperrors.ErrUnknownPeriod))
}

func TestGroups_EmptyInput(t *testing.T) {
	assert.NotNil(t, ByFamily(nil))
	assert.Empty(t, ByFamily(nil))
}
