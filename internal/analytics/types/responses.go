package types

import (
	"time"

	"github.com/angelmondragon/lucroreal-backend/internal/costs"
	"github.com/angelmondragon/lucroreal-backend/internal/reconcile"
	"github.com/angelmondragon/lucroreal-backend/internal/rollup"
	"github.com/angelmondragon/lucroreal-backend/internal/sales"
	"github.com/angelmondragon/lucroreal-backend/internal/simulator"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
)

// InputInfo describes one half of the snapshot.
type InputInfo struct {
	Version     uint64     `json:"version"`
	Name        string     `json:"name,omitempty"`
	Format      string     `json:"format,omitempty"`
	Rows        int        `json:"rows"`
	Accepted    int        `json:"accepted"`
	Dropped     int        `json:"dropped"`
	LoadedAt    *time.Time `json:"loadedAt,omitempty"`
	Fingerprint string     `json:"fingerprint,omitempty"`
}

// SnapshotInfo describes the snapshot currently served.
type SnapshotInfo struct {
	Version uint64    `json:"version"`
	Sales   InputInfo `json:"sales"`
	Costs   InputInfo `json:"costs"`
}

// UploadResult reports how an uploaded payload was read.
type UploadResult struct {
	Kind        enums.PayloadKind `json:"kind"`
	Name        string            `json:"name,omitempty"`
	Format      string            `json:"format"`
	Rows        int               `json:"rows"`
	Accepted    int               `json:"accepted"`
	Dropped     []sales.Dropped   `json:"dropped,omitempty"`
	Rejected    []int             `json:"rejected,omitempty"`
	CostHeader  int               `json:"costHeaderRow,omitempty"`
	MatchedCols []string          `json:"matchedColumns,omitempty"`
	Snapshot    SnapshotInfo      `json:"snapshot"`
}

// PageInfo accompanies every paginated view.
type PageInfo struct {
	SnapshotVersion uint64 `json:"snapshotVersion"`
	Total           int    `json:"total"`
	NextCursor      string `json:"nextCursor,omitempty"`
}

type SalesPage struct {
	PageInfo
	Items []reconcile.ReconciledSale `json:"items"`
}

type ProductsPage struct {
	PageInfo
	Items []rollup.ProductRollup `json:"items"`
}

type OrdersPage struct {
	PageInfo
	Items []rollup.OrderGroup `json:"items"`
}

type CostsPage struct {
	PageInfo
	Items []costs.Entry `json:"items"`
}

// SummaryResponse bundles the dashboard headline views.
type SummaryResponse struct {
	SnapshotVersion uint64              `json:"snapshotVersion"`
	Summary         rollup.Summary      `json:"summary"`
	Performance     rollup.Performance  `json:"performance"`
	Monthly         []rollup.MonthPoint `json:"monthly"`
}

type SimulateResponse = simulator.Result

// RefreshResult reports a combined refresh of both halves. A nil half was
// not provided or its content was unchanged.
type RefreshResult struct {
	Unchanged bool          `json:"unchanged"`
	Sales     *UploadResult `json:"sales,omitempty"`
	Costs     *UploadResult `json:"costs,omitempty"`
	Snapshot  SnapshotInfo  `json:"snapshot"`
}
