package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"screener/internal/indicator"
	"screener/internal/market"
	"screener/internal/provider"
	"screener/internal/scanner"
	"screener/internal/symbols"
	"screener/internal/zigzag"
	"screener/pkg/model"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// ScanQuery holds /api/scan parameters
type ScanQuery struct {
	Symbols  string `query:"symbols"`  // bulk list, any of , ; tab newline
	Universe string `query:"universe" default:"default" validate:"oneof=default nasdaq100 megacap"`
	Profile  string `query:"profile"`
	Max      int    `query:"max" validate:"gte=0,lte=500"` // 0 uses the configured maximum
}

// AnalysisQuery holds /api/symbols/:symbol/analysis parameters
type AnalysisQuery struct {
	Symbol    string  `param:"symbol" validate:"required"`
	Threshold float64 `query:"threshold" validate:"gte=0,lte=100"` // 0 uses the configured threshold
	Profile   string  `query:"profile"`
}

// ProfileInfo describes one weight profile
type ProfileInfo struct {
	Name    string             `json:"name"`
	Weights map[string]float64 `json:"weights"`
	Default bool               `json:"default"`
}

// bindQuery binds, applies default tags and validates req
func bindQuery(c echo.Context, req any) []ValidationError {
	if err := c.Bind(req); err != nil {
		return toValidationErrors(err)
	}
	if err := defaults.Set(req); err != nil {
		return toValidationErrors(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func (s *Server) handleScan(c echo.Context) error {
	q := &ScanQuery{}
	if verrs := bindQuery(c, q); verrs != nil {
		return badRequest(c, verrs)
	}

	profile := q.Profile
	if profile == "" {
		profile = s.defaultProfile
	}
	weights, err := s.profiles.Get(profile)
	if err != nil {
		return badRequest(c, []ValidationError{{Code: "ERR_ONEOF", Field: "Profile", Message: err.Error()}})
	}

	list := symbols.Parse(q.Symbols)
	if len(list) == 0 {
		list, err = symbols.GetUniverse(symbols.Universe(q.Universe))
		if err != nil {
			return badRequest(c, toValidationErrors(err))
		}
	}

	limit := q.Max
	if limit == 0 {
		limit = s.maxSymbols
	}

	result, err := s.scanner.Scan(c.Request().Context(), scanner.Request{
		Symbols: list,
		Profile: profile,
		Weights: weights,
		Max:     limit,
	})
	if err != nil {
		// only cancellation stops a scan; the client is usually gone
		s.log.Warn().Err(err).Int("scanned", result.TotalScanned).Msg("scan request interrupted")
	}
	return successResponse(c, result)
}

func (s *Server) handleLatest(c echo.Context) error {
	var result *model.ScanResult
	if s.latest != nil {
		result = s.latest()
	}
	if result == nil {
		return errorResponse(c, http.StatusNotFound, errors.New("no background scan has completed"))
	}
	return successResponse(c, result)
}

func (s *Server) handleAnalysis(c echo.Context) error {
	q := &AnalysisQuery{}
	if verrs := bindQuery(c, q); verrs != nil {
		return badRequest(c, verrs)
	}

	symbol := symbols.Normalize(q.Symbol)
	if !symbols.IsValidSymbol(symbol) {
		return badRequest(c, []ValidationError{{
			Code:    "ERR_SYMBOL",
			Field:   "Symbol",
			Message: fmt.Sprintf("invalid symbol: %s", q.Symbol),
		}})
	}

	profile := q.Profile
	if profile == "" {
		profile = s.defaultProfile
	}
	weights, err := s.profiles.Get(profile)
	if err != nil {
		return badRequest(c, []ValidationError{{Code: "ERR_ONEOF", Field: "Profile", Message: err.Error()}})
	}

	threshold := q.Threshold
	if threshold == 0 {
		threshold = s.threshold
	}

	report, err := s.scanner.Inspect(c.Request().Context(), symbol, threshold, weights)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("analysis failed")
		return errorResponse(c, analysisStatus(err), err)
	}
	return successResponse(c, report)
}

// analysisStatus maps an Inspect error to an HTTP status
func analysisStatus(err error) int {
	var perr *provider.ProviderError
	switch {
	case errors.Is(err, indicator.ErrInsufficientData), errors.Is(err, zigzag.ErrInvalidThreshold):
		return http.StatusUnprocessableEntity
	case errors.As(err, &perr), errors.Is(err, provider.ErrNoProviders):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleProfiles(c echo.Context) error {
	names := s.profiles.Names()
	out := make([]ProfileInfo, 0, len(names))
	for _, name := range names {
		out = append(out, ProfileInfo{
			Name:    name,
			Weights: s.profiles[name],
			Default: name == s.defaultProfile,
		})
	}
	return successResponse(c, out)
}

func (s *Server) handleMarket(c echo.Context) error {
	return successResponse(c, market.DefaultSchedule().StatusAt(time.Now()))
}

func (s *Server) handleHealth(c echo.Context) error {
	return successResponse(c, map[string]string{"status": "ok"})
}
