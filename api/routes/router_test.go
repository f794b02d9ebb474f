package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/lucroreal-backend/internal/analytics"
	"github.com/angelmondragon/lucroreal-backend/pkg/config"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
	"github.com/angelmondragon/lucroreal-backend/pkg/metrics"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type countingLimiter struct {
	limit int64
	calls int64
}

func (c *countingLimiter) FixedWindowAllow(_ context.Context, _ string, limit int64, _ time.Duration) (bool, int64, error) {
	c.calls++
	return c.calls <= c.limit, c.calls, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", CORSOrigins: []string{"http://localhost:3000"}},
		Upload: config.UploadConfig{
			MaxMB:              1,
			RateLimit:          2,
			RateLimitWindow:    time.Minute,
			DefaultMarketplace: "Mercado Livre",
		},
	}
}

func newTestRouter(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	if deps.Analytics == nil {
		reg := prometheus.NewRegistry()
		svc, err := analytics.NewService(analytics.ServiceParams{
			Logger:   logg,
			Pipeline: analytics.DefaultPipeline(),
			Metrics:  metrics.NewIngestMetrics(reg),
			MaxBytes: 1 << 20,
		})
		if err != nil {
			t.Fatalf("new service: %v", err)
		}
		deps.Analytics = svc
		if deps.Metrics == nil {
			deps.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		}
	}
	return NewRouter(testConfig(), logg, deps)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, reader))
	return rec
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, Deps{})

	rec := serve(router, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-LucroReal-Env") != "dev" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-LucroReal-Env"))
	}

	rec = serve(router, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"redis":"disabled"`) {
		t.Fatalf("unexpected ready response %d %s", rec.Code, rec.Body.String())
	}
}

func TestReadyFailsWhenRedisDown(t *testing.T) {
	router := newTestRouter(t, Deps{RedisPinger: stubPinger{err: errors.New("connection refused")}})

	rec := serve(router, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestEmptySnapshotServesEmptyViews(t *testing.T) {
	router := newTestRouter(t, Deps{})

	for _, path := range []string{"/api/v1/sales", "/api/v1/products", "/api/v1/orders", "/api/v1/costs"} {
		rec := serve(router, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", path, rec.Code, rec.Body.String())
		}
		var env struct {
			Data struct {
				Total int               `json:"total"`
				Items []json.RawMessage `json:"items"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if env.Data.Total != 0 || len(env.Data.Items) != 0 {
			t.Fatalf("%s: expected empty page, got %s", path, rec.Body.String())
		}
	}

	rec := serve(router, http.MethodGet, "/api/v1/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", rec.Code)
	}
}

func TestUploadThenList(t *testing.T) {
	router := newTestRouter(t, Deps{})

	sales := "N.º de venda,Data da venda,Estado,Descrição do status,Pacote de diversos produtos," +
		"Unidades,Receita por produtos (BRL),Receita por envio (BRL),Tarifa de venda e impostos," +
		"Tarifas de envio,Cancelamentos e reembolsos (BRL),Total (BRL),Mês de faturamento," +
		"Venda por publicidade,SKU,# de anúncio,Título do anúncio,Variação," +
		"Preço unitário de venda do anúncio (BRL),Custo por unidade,Tipo de anúncio\n" +
		`2000001,15/11/2024,Entregue,,,1,"100,00","10,00","-15,00","-8,00",0,,,,SKU-1,,Whey 900g,,,,Clássico` + "\n"

	rec := serve(router, http.MethodPost, "/api/v1/uploads/sales?name=vendas.csv", sales)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = serve(router, http.MethodGet, "/api/v1/sales", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Whey 900g") {
		t.Fatalf("unexpected sales response %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(router, http.MethodGet, "/api/v1/snapshot", "")
	if !strings.Contains(rec.Body.String(), `"name":"vendas.csv"`) {
		t.Fatalf("expected snapshot to name the upload, got %s", rec.Body.String())
	}
}

func TestUploadRateLimit(t *testing.T) {
	limiter := &countingLimiter{limit: 1}
	router := newTestRouter(t, Deps{Limiter: limiter})

	if rec := serve(router, http.MethodPost, "/api/v1/uploads/costs", "Produto,Custo por unidade\n"); rec.Code != http.StatusCreated {
		t.Fatalf("first upload: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec := serve(router, http.MethodPost, "/api/v1/uploads/costs", "Produto,Custo por unidade\n"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second upload: expected 429, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/api/v1/costs", ""); rec.Code != http.StatusOK {
		t.Fatalf("views are not rate limited, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, Deps{})
	serve(router, http.MethodGet, "/api/v1/sales", "")

	rec := serve(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "snapshot_version") {
		t.Fatalf("expected snapshot metrics, got %s", rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t, Deps{})
	if rec := serve(router, http.MethodGet, "/api/v1/unknown", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
