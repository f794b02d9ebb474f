package types

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/lucroreal-backend/internal/rollup"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	"github.com/angelmondragon/lucroreal-backend/pkg/pagination"
)

// ViewQuery selects the subset of reconciled sales a view is computed over.
type ViewQuery struct {
	Marketplace string
	Criteria    rollup.Criteria
	Page        pagination.Params
	Months      int
}

// UploadRequest carries one raw payload for a snapshot half.
type UploadRequest struct {
	Name        string
	Data        []byte
	Marketplace enums.Marketplace
}

// SimulateRequest is the profit simulator input. Nil cost fields are
// prefilled from the cost entry matching Title.
type SimulateRequest struct {
	Title      string           `json:"title" validate:"omitempty,max=300"`
	UnitCost   *decimal.Decimal `json:"unitCost" validate:"omitempty,gte=0"`
	Commission *decimal.Decimal `json:"commission" validate:"omitempty,gte=0"`
	Shipping   *decimal.Decimal `json:"shipping" validate:"omitempty,gte=0"`
	Price      decimal.Decimal  `json:"price" validate:"gte=0"`
	TaxPercent decimal.Decimal  `json:"taxPercent" validate:"gte=0,lte=100"`
	Fees       decimal.Decimal  `json:"fees" validate:"gte=0"`
}
