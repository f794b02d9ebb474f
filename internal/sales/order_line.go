package sales

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
)

// OrderLine is one canonical row of a marketplace sales export.
//
// FeeAndTax, ShippingFee and CancellationRefund follow the export's sign
// convention: negative values are money leaving the seller.
type OrderLine struct {
	OrderID            string            `json:"orderId"`
	OrderDate          string            `json:"orderDate"`
	Status             string            `json:"status"`
	SKU                string            `json:"sku"`
	ListingTitle       string            `json:"listingTitle"`
	Variant            string            `json:"variant"`
	ListingType        string            `json:"listingType,omitempty"`
	Marketplace        enums.Marketplace `json:"marketplace"`
	Units              int               `json:"units"`
	UnitPrice          decimal.Decimal   `json:"unitPrice"`
	ProductRevenue     decimal.Decimal   `json:"productRevenue"`
	ShippingRevenue    decimal.Decimal   `json:"shippingRevenue"`
	FeeAndTax          decimal.Decimal   `json:"feeAndTax"`
	ShippingFee        decimal.Decimal   `json:"shippingFee"`
	CancellationRefund decimal.Decimal   `json:"cancellationRefund"`
	ReportedTotal      decimal.Decimal   `json:"reportedTotal"`
	UnitCostHint       decimal.Decimal   `json:"unitCostHint"`
}

// MarketplaceTag returns the marketplace the line was sold on.
func (o OrderLine) MarketplaceTag() enums.Marketplace {
	return o.Marketplace
}
