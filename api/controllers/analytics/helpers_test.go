package analytics

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/lucroreal-backend/internal/analytics/types"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
	"github.com/angelmondragon/lucroreal-backend/pkg/pagination"
	apitypes "github.com/angelmondragon/lucroreal-backend/pkg/types"
)

type stubService struct {
	uploadReq  types.UploadRequest
	uploadKind string
	uploadErr  error

	lastQuery types.ViewQuery
	lastPage  pagination.Params
	viewErr   error

	simulateReq types.SimulateRequest
}

func (s *stubService) UploadSales(_ context.Context, req types.UploadRequest) (types.UploadResult, error) {
	s.uploadKind, s.uploadReq = "sales", req
	return types.UploadResult{Name: req.Name, Rows: 1}, s.uploadErr
}

func (s *stubService) UploadCosts(_ context.Context, req types.UploadRequest) (types.UploadResult, error) {
	s.uploadKind, s.uploadReq = "costs", req
	return types.UploadResult{Name: req.Name, Rows: 1}, s.uploadErr
}

func (s *stubService) Refresh(context.Context, *types.UploadRequest, *types.UploadRequest) (types.RefreshResult, error) {
	return types.RefreshResult{}, nil
}

func (s *stubService) Sync(context.Context) (bool, error) { return false, nil }

func (s *stubService) Snapshot(context.Context) types.SnapshotInfo {
	return types.SnapshotInfo{Version: 3}
}

func (s *stubService) Sales(_ context.Context, q types.ViewQuery) (types.SalesPage, error) {
	s.lastQuery = q
	return types.SalesPage{PageInfo: types.PageInfo{SnapshotVersion: 3}}, s.viewErr
}

func (s *stubService) Products(_ context.Context, q types.ViewQuery) (types.ProductsPage, error) {
	s.lastQuery = q
	return types.ProductsPage{}, s.viewErr
}

func (s *stubService) Orders(_ context.Context, q types.ViewQuery) (types.OrdersPage, error) {
	s.lastQuery = q
	return types.OrdersPage{}, s.viewErr
}

func (s *stubService) Summary(_ context.Context, q types.ViewQuery) (types.SummaryResponse, error) {
	s.lastQuery = q
	return types.SummaryResponse{SnapshotVersion: 3}, s.viewErr
}

func (s *stubService) Costs(_ context.Context, page pagination.Params) (types.CostsPage, error) {
	s.lastPage = page
	return types.CostsPage{}, s.viewErr
}

func (s *stubService) Simulate(_ context.Context, req types.SimulateRequest) (types.SimulateResponse, error) {
	s.simulateReq = req
	return types.SimulateResponse{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apitypes.APIError {
	t.Helper()
	var env apitypes.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Error
}
