package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerdash/internal/dataprocessing"
	"ledgerdash/pkg/contracts/domain"
)

// ByFamily sums sales per product family, largest quantity first. Share is
// the family's percentage of the total quantity.
func ByFamily(lines []domain.SaleLine) []domain.ProductGroup {
	groups := groupSales(lines, func(l domain.SaleLine) string { return l.Family })
	sortAndShare(groups, func(g domain.ProductGroup) decimal.Decimal { return g.Quantity })
	return groups
}

// BySubFamily is ByFamily keyed by sub-family
func BySubFamily(lines []domain.SaleLine) []domain.ProductGroup {
	groups := groupSales(lines, func(l domain.SaleLine) string { return l.SubFamily })
	sortAndShare(groups, func(g domain.ProductGroup) decimal.Decimal { return g.Quantity })
	return groups
}

// SellerTotals sums sales per seller, largest delivery amount first. Share
// is the seller's percentage of the total delivery amount.
func SellerTotals(lines []domain.SaleLine) []domain.ProductGroup {
	groups := groupSales(lines, func(l domain.SaleLine) string { return l.Seller })
	sortAndShare(groups, func(g domain.ProductGroup) decimal.Decimal { return g.Delivery })
	return groups
}

// FilterSales keeps the lines of one seller and one period. An empty filter
// matches everything; the period accepts any spelling of the month.
func FilterSales(lines []domain.SaleLine, seller, period string) ([]domain.SaleLine, error) {
	if period != "" {
		canonical, err := dataprocessing.CanonicalPeriod(period)
		if err != nil {
			return nil, err
		}
		period = canonical
	}

	out := make([]domain.SaleLine, 0, len(lines))
	for _, l := range lines {
		if seller != "" && !sameLabel(l.Seller, seller) {
			continue
		}
		if period != "" && l.Period != period {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func groupSales(lines []domain.SaleLine, key func(domain.SaleLine) string) []domain.ProductGroup {
	idx := make(map[string]int)
	var groups []domain.ProductGroup
	for _, l := range lines {
		label := strings.TrimSpace(key(l))
		i, ok := idx[label]
		if !ok {
			i = len(groups)
			idx[label] = i
			groups = append(groups, domain.ProductGroup{Label: label})
		}
		g := &groups[i]
		g.Quantity = g.Quantity.Add(l.Quantity)
		g.Delivery = g.Delivery.Add(l.Delivery)
		g.Profit = g.Profit.Add(l.Profit)
	}
	if groups == nil {
		groups = []domain.ProductGroup{}
	}
	return groups
}

func sortAndShare(groups []domain.ProductGroup, by func(domain.ProductGroup) decimal.Decimal) {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(by(g))
	}
	for i := range groups {
		groups[i].Share = percentOf(by(groups[i]), total)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := by(groups[i]), by(groups[j])
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return groups[i].Label < groups[j].Label
	})
}
