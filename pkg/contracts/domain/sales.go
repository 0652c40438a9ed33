package domain

import "github.com/shopspring/decimal"

// Sales metric names used by period and pivot reports
const (
	MetricDelivery = "livraison"
	MetricProfit   = "benefice"
	MetricQuantity = "quantite"
)

// Ledger metric names used by monthly period reports
const (
	MetricDeposited = "versement"
	MetricOrders    = "commandes"
	MetricExpenses  = "charges"
)

// SaleLine is one product row of a seller sheet in a sales workbook
type SaleLine struct {
	Family      string          `json:"family"`
	SubFamily   string          `json:"sub_family"`
	Product     string          `json:"product"`
	Quantity    decimal.Decimal `json:"quantity"`
	Delivery    decimal.Decimal `json:"delivery"`
	Profit      decimal.Decimal `json:"profit"`
	Seller      string          `json:"seller"`
	Year        int             `json:"year"`
	Period      string          `json:"period"`
	PeriodIndex int             `json:"period_index"`
}

// Metric returns the named sales metric, zero for unknown names
func (s SaleLine) Metric(name string) decimal.Decimal {
	switch name {
	case MetricDelivery:
		return s.Delivery
	case MetricProfit:
		return s.Profit
	case MetricQuantity:
		return s.Quantity
	}
	return decimal.Zero
}

// ProductGroup is a family or sub-family of products with summed sales
type ProductGroup struct {
	Label    string          `json:"label"`
	Quantity decimal.Decimal `json:"quantity"`
	Delivery decimal.Decimal `json:"delivery"`
	Profit   decimal.Decimal `json:"profit"`
	Share    float64         `json:"share"`
}
