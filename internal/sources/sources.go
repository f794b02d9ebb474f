package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/lucroreal-backend/pkg/config"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
	s3store "github.com/angelmondragon/lucroreal-backend/pkg/storage/s3"
)

// ErrTooLarge is returned when a source holds more bytes than allowed.
var ErrTooLarge = errors.New("source exceeds size limit")

// Payload is the raw content of one source.
type Payload struct {
	Kind enums.PayloadKind
	Name string
	Data []byte
}

// Source fetches one payload.
type Source interface {
	Kind() enums.PayloadKind
	Describe() string
	Fetch(ctx context.Context) (Payload, error)
}

// FileSource reads a payload from the local filesystem.
type FileSource struct {
	kind     enums.PayloadKind
	path     string
	maxBytes int64
}

func NewFileSource(kind enums.PayloadKind, path string, maxBytes int64) *FileSource {
	return &FileSource{kind: kind, path: path, maxBytes: maxBytes}
}

func (f *FileSource) Kind() enums.PayloadKind { return f.kind }

func (f *FileSource) Describe() string { return "file://" + f.path }

func (f *FileSource) Fetch(ctx context.Context) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}
	file, err := os.Open(f.path)
	if err != nil {
		return Payload{}, fmt.Errorf("open %s source: %w", f.kind, err)
	}
	defer file.Close()

	var r io.Reader = file
	if f.maxBytes > 0 {
		r = io.LimitReader(file, f.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("read %s source: %w", f.kind, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return Payload{}, fmt.Errorf("%s source %s: %w", f.kind, f.path, ErrTooLarge)
	}
	return Payload{Kind: f.kind, Name: filepath.Base(f.path), Data: data}, nil
}

type objectDownloader interface {
	Bucket() string
	Download(ctx context.Context, key string, maxBytes int64) ([]byte, error)
}

// S3Source reads a payload from an object in the configured bucket.
type S3Source struct {
	kind     enums.PayloadKind
	client   objectDownloader
	key      string
	maxBytes int64
}

func NewS3Source(kind enums.PayloadKind, client objectDownloader, key string, maxBytes int64) *S3Source {
	return &S3Source{kind: kind, client: client, key: key, maxBytes: maxBytes}
}

func (s *S3Source) Kind() enums.PayloadKind { return s.kind }

func (s *S3Source) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.client.Bucket(), s.key)
}

func (s *S3Source) Fetch(ctx context.Context) (Payload, error) {
	data, err := s.client.Download(ctx, s.key, s.maxBytes)
	if err != nil {
		if errors.Is(err, s3store.ErrTooLarge) {
			return Payload{}, fmt.Errorf("%s source %s: %w", s.kind, s.Describe(), ErrTooLarge)
		}
		return Payload{}, fmt.Errorf("fetch %s source: %w", s.kind, err)
	}
	return Payload{Kind: s.kind, Name: filepath.Base(s.key), Data: data}, nil
}

// Pair holds the configured sources. Either side may be nil.
type Pair struct {
	Sales Source
	Costs Source
}

// Load fetches both sources concurrently. The first failure cancels the
// other fetch; every side that failed is reported in the combined error.
func (p Pair) Load(ctx context.Context) (salesPayload, costsPayload *Payload, err error) {
	g, gctx := errgroup.WithContext(ctx)
	var salesErr, costsErr error
	if p.Sales != nil {
		g.Go(func() error {
			salesPayload, salesErr = fetch(gctx, p.Sales)
			return salesErr
		})
	}
	if p.Costs != nil {
		g.Go(func() error {
			costsPayload, costsErr = fetch(gctx, p.Costs)
			return costsErr
		})
	}
	if g.Wait() != nil {
		return nil, nil, multierr.Combine(salesErr, costsErr)
	}
	return salesPayload, costsPayload, nil
}

func fetch(ctx context.Context, src Source) (*Payload, error) {
	payload, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s source %s: %w", src.Kind(), src.Describe(), err)
	}
	return &payload, nil
}

// Empty reports whether no source is configured.
func (p Pair) Empty() bool {
	return p.Sales == nil && p.Costs == nil
}

// FromConfig builds the pair for the configured backend. Paths left empty
// leave that side unset; for S3 the paths are object keys.
func FromConfig(ctx context.Context, cfg config.SourcesConfig, maxBytes int64, logg *logger.Logger) (Pair, error) {
	salesPath := strings.TrimSpace(cfg.SalesPath)
	costsPath := strings.TrimSpace(cfg.CostsPath)

	var pair Pair
	if !cfg.IsS3() {
		if salesPath != "" {
			pair.Sales = NewFileSource(enums.PayloadKindSales, salesPath, maxBytes)
		}
		if costsPath != "" {
			pair.Costs = NewFileSource(enums.PayloadKindCosts, costsPath, maxBytes)
		}
		return pair, nil
	}

	client, err := s3store.NewClient(ctx, cfg, logg)
	if err != nil {
		return Pair{}, err
	}
	if err := client.Ping(ctx); err != nil {
		return Pair{}, fmt.Errorf("s3 sources: %w", err)
	}
	if salesPath != "" {
		pair.Sales = NewS3Source(enums.PayloadKindSales, client, salesPath, maxBytes)
	}
	if costsPath != "" {
		pair.Costs = NewS3Source(enums.PayloadKindCosts, client, costsPath, maxBytes)
	}
	return pair, nil
}
