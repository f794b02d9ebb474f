package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/lucroreal-backend/internal/analytics/types"
	"github.com/angelmondragon/lucroreal-backend/internal/costs"
	"github.com/angelmondragon/lucroreal-backend/internal/sales"
	"github.com/angelmondragon/lucroreal-backend/internal/simulator"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lucroreal-backend/pkg/errors"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
	"github.com/angelmondragon/lucroreal-backend/pkg/metrics"
	"github.com/angelmondragon/lucroreal-backend/pkg/pagination"
)

const (
	defaultCacheTTL     = 10 * time.Minute
	defaultCacheCleanup = 15 * time.Minute
)

// ServiceParams groups dependencies for the analytics service.
type ServiceParams struct {
	Logger   *logger.Logger
	Pipeline Pipeline
	// Payloads shares uploads between instances. Nil keeps snapshots in memory.
	Payloads     PayloadStore
	Metrics      *metrics.IngestMetrics
	MaxBytes     int64
	CacheTTL     time.Duration
	CacheCleanup time.Duration
	Clock        func() time.Time
}

// Service ingests the sales and cost payloads and serves the views derived
// from the current snapshot.
type Service interface {
	UploadSales(ctx context.Context, req types.UploadRequest) (types.UploadResult, error)
	UploadCosts(ctx context.Context, req types.UploadRequest) (types.UploadResult, error)
	// Refresh replaces the provided halves together, skipping halves whose
	// content is unchanged.
	Refresh(ctx context.Context, salesReq, costsReq *types.UploadRequest) (types.RefreshResult, error)
	// Sync installs payloads published by other instances.
	Sync(ctx context.Context) (bool, error)

	Snapshot(ctx context.Context) types.SnapshotInfo
	Sales(ctx context.Context, q types.ViewQuery) (types.SalesPage, error)
	Products(ctx context.Context, q types.ViewQuery) (types.ProductsPage, error)
	Orders(ctx context.Context, q types.ViewQuery) (types.OrdersPage, error)
	Summary(ctx context.Context, q types.ViewQuery) (types.SummaryResponse, error)
	Costs(ctx context.Context, page pagination.Params) (types.CostsPage, error)
	Simulate(ctx context.Context, req types.SimulateRequest) (types.SimulateResponse, error)
}

type service struct {
	logg        *logger.Logger
	store       *SnapshotStore
	views       *viewCache
	payloads    PayloadStore
	metrics     *metrics.IngestMetrics
	salesParser sales.Parser
	costLoader  costs.Loader
	maxBytes    int64
	now         func() time.Time

	// writeMu orders version allocation, publishing and install.
	writeMu    sync.Mutex
	lastSynced uint64
}

// NewService builds the analytics service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Pipeline.Engine == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reconciliation engine is required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cleanup := params.CacheCleanup
	if cleanup <= 0 {
		cleanup = defaultCacheCleanup
	}
	return &service{
		logg:        params.Logger,
		store:       NewSnapshotStore(),
		views:       newViewCache(ttl, cleanup, params.Pipeline.Engine, params.Metrics, now),
		payloads:    params.Payloads,
		metrics:     params.Metrics,
		salesParser: params.Pipeline.Parser,
		costLoader:  params.Pipeline.Loader,
		maxBytes:    params.MaxBytes,
		now:         now,
	}, nil
}

// UploadSales replaces the sales half of the snapshot.
func (s *service) UploadSales(ctx context.Context, req types.UploadRequest) (types.UploadResult, error) {
	in, err := s.parseSales(req)
	if err != nil {
		return types.UploadResult{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	version, err := s.publish(ctx, storedSales(req, in))
	if err != nil {
		return types.UploadResult{}, err
	}
	in.Version = version
	snap := s.install(ctx, &in, nil)
	s.logSalesReport(s.logg.WithSnapshotVersion(ctx, snap.Version), in)
	return salesResult(in, snap), nil
}

// UploadCosts replaces the cost reference half of the snapshot.
func (s *service) UploadCosts(ctx context.Context, req types.UploadRequest) (types.UploadResult, error) {
	in, err := s.parseCosts(req)
	if err != nil {
		return types.UploadResult{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	version, err := s.publish(ctx, storedCosts(req, in))
	if err != nil {
		return types.UploadResult{}, err
	}
	in.Version = version
	snap := s.install(ctx, nil, &in)
	s.logCostsReport(s.logg.WithSnapshotVersion(ctx, snap.Version), in)
	return costsResult(in, snap), nil
}

// Refresh parses the changed halves and swaps them in under one version.
func (s *service) Refresh(ctx context.Context, salesReq, costsReq *types.UploadRequest) (types.RefreshResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.store.Current()
	var (
		salesIn  *SalesInput
		costsIn  *CostsInput
		payloads []StoredPayload
	)
	if salesReq != nil && !sameContent(cur.Sales.Version, cur.Sales.Fingerprint, salesReq.Data) {
		in, err := s.parseSales(*salesReq)
		if err != nil {
			return types.RefreshResult{}, err
		}
		salesIn = &in
		payloads = append(payloads, storedSales(*salesReq, in))
	}
	if costsReq != nil && !sameContent(cur.Costs.Version, cur.Costs.Fingerprint, costsReq.Data) {
		in, err := s.parseCosts(*costsReq)
		if err != nil {
			return types.RefreshResult{}, err
		}
		costsIn = &in
		payloads = append(payloads, storedCosts(*costsReq, in))
	}
	if len(payloads) == 0 {
		return types.RefreshResult{Unchanged: true, Snapshot: snapshotInfo(cur)}, nil
	}

	version, err := s.publish(ctx, payloads...)
	if err != nil {
		return types.RefreshResult{}, err
	}
	result := types.RefreshResult{}
	if salesIn != nil {
		salesIn.Version = version
	}
	if costsIn != nil {
		costsIn.Version = version
	}
	snap := s.install(ctx, salesIn, costsIn)
	logCtx := s.logg.WithSnapshotVersion(ctx, snap.Version)
	if salesIn != nil {
		s.logSalesReport(logCtx, *salesIn)
		r := salesResult(*salesIn, snap)
		result.Sales = &r
	}
	if costsIn != nil {
		s.logCostsReport(logCtx, *costsIn)
		r := costsResult(*costsIn, snap)
		result.Costs = &r
	}
	result.Snapshot = snapshotInfo(snap)
	return result, nil
}

func sameContent(version, fingerprint uint64, data []byte) bool {
	return version > 0 && fingerprint == Fingerprint(data)
}

// Sync loads the shared payloads when the shared version moved past the last
// one seen. Only halves newer than the served ones are parsed.
func (s *service) Sync(ctx context.Context) (bool, error) {
	if s.payloads == nil {
		return false, nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	latest, err := s.payloads.Latest(ctx)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read shared snapshot version")
	}
	if latest <= s.lastSynced {
		return false, nil
	}

	cur := s.store.Current()
	seen := s.lastSynced
	var (
		salesIn *SalesInput
		costsIn *CostsInput
	)
	stored, err := s.payloads.Load(ctx, enums.PayloadKindSales)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shared sales payload")
	}
	if stored != nil {
		seen = max(seen, stored.Version)
		if stored.Version > cur.Sales.Version {
			in, err := s.decodeSales(requestFrom(stored))
			if err != nil {
				return false, err
			}
			in.Version, in.LoadedAt = stored.Version, stored.StoredAt
			salesIn = &in
		}
	}
	stored, err = s.payloads.Load(ctx, enums.PayloadKindCosts)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shared cost payload")
	}
	if stored != nil {
		seen = max(seen, stored.Version)
		if stored.Version > cur.Costs.Version {
			in, err := s.decodeCosts(requestFrom(stored))
			if err != nil {
				return false, err
			}
			in.Version, in.LoadedAt = stored.Version, stored.StoredAt
			costsIn = &in
		}
	}
	// A version allocated but not stored yet is retried on the next sync.
	s.lastSynced = seen

	if salesIn == nil && costsIn == nil {
		return false, nil
	}
	snap := s.install(ctx, salesIn, costsIn)
	logCtx := s.logg.WithSnapshotVersion(ctx, snap.Version)
	if salesIn != nil {
		s.logSalesReport(logCtx, *salesIn)
	}
	if costsIn != nil {
		s.logCostsReport(logCtx, *costsIn)
	}
	return true, nil
}

func requestFrom(p *StoredPayload) types.UploadRequest {
	return types.UploadRequest{Name: p.Name, Data: p.Data, Marketplace: p.Marketplace}
}

// publish returns the version for the payloads, allocated by the shared store
// when one is configured.
func (s *service) publish(ctx context.Context, payloads ...StoredPayload) (uint64, error) {
	if s.payloads == nil {
		return s.store.NextHalfVersion(), nil
	}
	version, err := s.payloads.Publish(ctx, payloads...)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish payload")
	}
	return version, nil
}

func (s *service) install(ctx context.Context, salesIn *SalesInput, costsIn *CostsInput) *Snapshot {
	snap, changed := s.store.Install(salesIn, costsIn)
	if !changed {
		s.logg.Warn(s.logg.WithSnapshotVersion(ctx, snap.Version), "payload older than the served snapshot was ignored")
		return snap
	}
	s.views.flush()
	s.metrics.SetSnapshotVersion(snap.Version)
	s.logg.Info(s.logg.WithSnapshotVersion(ctx, snap.Version), "snapshot installed")
	return snap
}

func storedSales(req types.UploadRequest, in SalesInput) StoredPayload {
	return StoredPayload{
		Kind:        enums.PayloadKindSales,
		Name:        req.Name,
		Marketplace: req.Marketplace,
		Data:        req.Data,
		Fingerprint: in.Fingerprint,
		StoredAt:    in.LoadedAt,
	}
}

func storedCosts(req types.UploadRequest, in CostsInput) StoredPayload {
	return StoredPayload{
		Kind:        enums.PayloadKindCosts,
		Name:        req.Name,
		Data:        req.Data,
		Fingerprint: in.Fingerprint,
		StoredAt:    in.LoadedAt,
	}
}

func salesResult(in SalesInput, snap *Snapshot) types.UploadResult {
	return types.UploadResult{
		Kind:        enums.PayloadKindSales,
		Name:        in.Name,
		Format:      in.Format,
		Rows:        in.Report.Rows,
		Accepted:    in.Report.Accepted,
		Dropped:     in.Report.Dropped,
		MatchedCols: in.Report.ByName,
		Snapshot:    snapshotInfo(snap),
	}
}

func costsResult(in CostsInput, snap *Snapshot) types.UploadResult {
	return types.UploadResult{
		Kind:       enums.PayloadKindCosts,
		Name:       in.Name,
		Format:     in.Format,
		Rows:       in.Report.Rows,
		Accepted:   in.Report.Accepted,
		Rejected:   in.Report.Rejected,
		CostHeader: in.Report.HeaderRow,
		Snapshot:   snapshotInfo(snap),
	}
}

func snapshotInfo(snap *Snapshot) types.SnapshotInfo {
	salesInfo := types.InputInfo{
		Version:  snap.Sales.Version,
		Name:     snap.Sales.Name,
		Format:   snap.Sales.Format,
		Rows:     snap.Sales.Report.Rows,
		Accepted: snap.Sales.Report.Accepted,
		Dropped:  len(snap.Sales.Report.Dropped),
	}
	costsInfo := types.InputInfo{
		Version:  snap.Costs.Version,
		Name:     snap.Costs.Name,
		Format:   snap.Costs.Format,
		Rows:     snap.Costs.Report.Rows,
		Accepted: snap.Costs.Report.Accepted,
		Dropped:  len(snap.Costs.Report.Rejected),
	}
	if snap.Sales.Version > 0 {
		loaded := snap.Sales.LoadedAt
		salesInfo.LoadedAt = &loaded
		salesInfo.Fingerprint = fmt.Sprintf("%016x", snap.Sales.Fingerprint)
	}
	if snap.Costs.Version > 0 {
		loaded := snap.Costs.LoadedAt
		costsInfo.LoadedAt = &loaded
		costsInfo.Fingerprint = fmt.Sprintf("%016x", snap.Costs.Fingerprint)
	}
	return types.SnapshotInfo{Version: snap.Version, Sales: salesInfo, Costs: costsInfo}
}

// Snapshot describes the snapshot currently served.
func (s *service) Snapshot(ctx context.Context) types.SnapshotInfo {
	return snapshotInfo(s.store.Current())
}

// Sales returns reconciled sales matching the query.
func (s *service) Sales(ctx context.Context, q types.ViewQuery) (types.SalesPage, error) {
	snap := s.store.Current()
	items := s.views.filtered(snap, q)
	page, info, err := paginate(items, q.Page, snap.Version)
	if err != nil {
		return types.SalesPage{}, err
	}
	return types.SalesPage{PageInfo: info, Items: page}, nil
}

// Products returns product rollups, most profitable first.
func (s *service) Products(ctx context.Context, q types.ViewQuery) (types.ProductsPage, error) {
	snap := s.store.Current()
	items := s.views.products(snap, q)
	page, info, err := paginate(items, q.Page, snap.Version)
	if err != nil {
		return types.ProductsPage{}, err
	}
	return types.ProductsPage{PageInfo: info, Items: page}, nil
}

// Orders returns order groups, most recent first.
func (s *service) Orders(ctx context.Context, q types.ViewQuery) (types.OrdersPage, error) {
	snap := s.store.Current()
	items := s.views.orders(snap, q)
	page, info, err := paginate(items, q.Page, snap.Version)
	if err != nil {
		return types.OrdersPage{}, err
	}
	return types.OrdersPage{PageInfo: info, Items: page}, nil
}

// Summary returns the headline totals, the profit breakdown and the monthly series.
func (s *service) Summary(ctx context.Context, q types.ViewQuery) (types.SummaryResponse, error) {
	return s.views.summary(s.store.Current(), q), nil
}

// Costs lists the cost entries in insertion order.
func (s *service) Costs(ctx context.Context, params pagination.Params) (types.CostsPage, error) {
	snap := s.store.Current()
	page, info, err := paginate(snap.Costs.Table.Entries(), params, snap.Version)
	if err != nil {
		return types.CostsPage{}, err
	}
	return types.CostsPage{PageInfo: info, Items: page}, nil
}

// Simulate projects the profit of a hypothetical sale against the current cost table.
func (s *service) Simulate(ctx context.Context, req types.SimulateRequest) (types.SimulateResponse, error) {
	snap := s.store.Current()
	return simulator.Simulate(simulator.Input{
		Title:      req.Title,
		UnitCost:   req.UnitCost,
		Commission: req.Commission,
		Shipping:   req.Shipping,
		Price:      req.Price,
		TaxPercent: req.TaxPercent,
		Fees:       req.Fees,
	}, snap.Costs.Table), nil
}

func paginate[T any](items []T, params pagination.Params, version uint64) ([]T, types.PageInfo, error) {
	page, next, err := pagination.Page(items, params, version)
	if err != nil {
		if errors.Is(err, pagination.ErrStaleCursor) {
			return nil, types.PageInfo{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "snapshot changed since the cursor was issued")
		}
		return nil, types.PageInfo{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return page, types.PageInfo{SnapshotVersion: version, Total: len(items), NextCursor: next}, nil
}
