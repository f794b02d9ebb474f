package analytics

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/angelmondragon/lucroreal-backend/api/responses"
	"github.com/angelmondragon/lucroreal-backend/api/validators"
	"github.com/angelmondragon/lucroreal-backend/internal/analytics"
	"github.com/angelmondragon/lucroreal-backend/internal/analytics/types"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lucroreal-backend/pkg/errors"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
)

const (
	uploadFormField   = "file"
	multipartOverhead = 1 << 20
	maxNameLength     = 255
)

// UploadParams configures the upload handlers.
type UploadParams struct {
	MaxBytes           int64
	DefaultMarketplace enums.Marketplace
}

// UploadSales replaces the sales half of the snapshot with the request body.
func UploadSales(service analytics.Service, params UploadParams, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		marketplace, err := uploadMarketplace(r, params.DefaultMarketplace)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		req, err := readUpload(w, r, params.MaxBytes)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		req.Marketplace = marketplace

		result, err := service.UploadSales(ctx, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// UploadCosts replaces the cost reference half of the snapshot with the request body.
func UploadCosts(service analytics.Service, params UploadParams, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req, err := readUpload(w, r, params.MaxBytes)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.UploadCosts(ctx, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func uploadMarketplace(r *http.Request, fallback enums.Marketplace) (enums.Marketplace, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("marketplace"))
	if raw == "" {
		return fallback, nil
	}
	m, err := enums.ParseMarketplace(raw)
	if err != nil || !m.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "marketplace must name a single marketplace").
			WithDetails(map[string]any{"field": "marketplace"})
	}
	return m, nil
}

// readUpload accepts either a raw body or a multipart form with a file field.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (types.UploadRequest, error) {
	name := validators.SanitizeString(r.URL.Query().Get("name"), maxNameLength)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		}
		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			return types.UploadRequest{}, uploadReadError(err, maxBytes)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return types.UploadRequest{}, uploadReadError(err, maxBytes)
		}
		if name == "" {
			name = validators.SanitizeString(header.Filename, maxNameLength)
		}
		return types.UploadRequest{Name: name, Data: data}, nil
	}

	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return types.UploadRequest{}, uploadReadError(err, maxBytes)
	}
	return types.UploadRequest{Name: name, Data: data}, nil
}

func uploadReadError(err error, maxBytes int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "payload exceeds upload limit").
			WithDetails(map[string]any{"maxBytes": maxBytes})
	}
	if errors.Is(err, http.ErrMissingFile) {
		return pkgerrors.New(pkgerrors.CodeValidation, "multipart uploads need a file field").
			WithDetails(map[string]any{"field": uploadFormField})
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read upload")
}
