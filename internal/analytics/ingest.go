package analytics

import (
	"context"

	"github.com/cespare/xxhash/v2"

	"github.com/angelmondragon/lucroreal-backend/internal/analytics/types"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lucroreal-backend/pkg/errors"
	"github.com/angelmondragon/lucroreal-backend/pkg/tabular"
)

// Fingerprint identifies payload content so identical refreshes can be skipped.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func (s *service) checkSize(data []byte) error {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return pkgerrors.New(pkgerrors.CodePayloadTooLarge, "payload exceeds upload limit").
			WithDetails(map[string]any{"maxBytes": s.maxBytes, "size": len(data)})
	}
	return nil
}

func loadRows(data []byte) ([][]string, tabular.Format, error) {
	rows, format, err := tabular.Load(data)
	if err != nil {
		if format == tabular.FormatLegacyXL {
			return nil, format, pkgerrors.Wrap(pkgerrors.CodeUnsupportedFormat, err, err.Error())
		}
		return nil, format, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payload could not be read").
			WithDetails(map[string]any{"format": string(format)})
	}
	return rows, format, nil
}

func (s *service) parseSales(req types.UploadRequest) (SalesInput, error) {
	if err := s.checkSize(req.Data); err != nil {
		return SalesInput{}, err
	}
	return s.decodeSales(req)
}

// decodeSales skips the size limit; stored payloads were accepted by another instance.
func (s *service) decodeSales(req types.UploadRequest) (SalesInput, error) {
	rows, format, err := loadRows(req.Data)
	if err != nil {
		return SalesInput{}, err
	}
	parser := s.salesParser
	if req.Marketplace.IsValid() {
		parser.Marketplace = req.Marketplace
	}
	lines, report := parser.ParseRows(rows)
	s.metrics.AddRows(enums.PayloadKindSales.String(), report.Accepted, len(report.Dropped))
	return SalesInput{
		Name:        req.Name,
		Format:      string(format),
		Fingerprint: Fingerprint(req.Data),
		LoadedAt:    s.now().UTC(),
		Lines:       lines,
		Report:      report,
	}, nil
}

func (s *service) parseCosts(req types.UploadRequest) (CostsInput, error) {
	if err := s.checkSize(req.Data); err != nil {
		return CostsInput{}, err
	}
	return s.decodeCosts(req)
}

func (s *service) decodeCosts(req types.UploadRequest) (CostsInput, error) {
	rows, format, err := loadRows(req.Data)
	if err != nil {
		return CostsInput{}, err
	}
	table, report := s.costLoader.LoadRows(rows)
	s.metrics.AddRows(enums.PayloadKindCosts.String(), report.Accepted, len(report.Rejected))
	return CostsInput{
		Name:        req.Name,
		Format:      string(format),
		Fingerprint: Fingerprint(req.Data),
		LoadedAt:    s.now().UTC(),
		Table:       table,
		Report:      report,
	}, nil
}

// maxLoggedRows bounds how many dropped row numbers go into one log entry.
const maxLoggedRows = 50

func (s *service) logSalesReport(ctx context.Context, in SalesInput) {
	logCtx := s.logg.WithPayload(ctx, enums.PayloadKindSales.String(), in.Name)
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"format":   in.Format,
		"rows":     in.Report.Rows,
		"accepted": in.Report.Accepted,
		"dropped":  len(in.Report.Dropped),
	})
	if n := len(in.Report.Dropped); n > 0 {
		sample := in.Report.Dropped
		if n > maxLoggedRows {
			sample = sample[:maxLoggedRows]
		}
		s.logg.Warn(s.logg.WithField(logCtx, "dropped_rows", sample), "sales rows dropped")
	}
	s.logg.Info(logCtx, "sales payload parsed")
}

func (s *service) logCostsReport(ctx context.Context, in CostsInput) {
	logCtx := s.logg.WithPayload(ctx, enums.PayloadKindCosts.String(), in.Name)
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"format":     in.Format,
		"rows":       in.Report.Rows,
		"accepted":   in.Report.Accepted,
		"entries":    in.Report.Entries,
		"header_row": in.Report.HeaderRow,
	})
	if n := len(in.Report.Rejected); n > 0 {
		sample := in.Report.Rejected
		if n > maxLoggedRows {
			sample = sample[:maxLoggedRows]
		}
		s.logg.Warn(s.logg.WithField(logCtx, "rejected_rows", sample), "cost rows rejected")
	}
	s.logg.Info(logCtx, "cost payload parsed")
}
