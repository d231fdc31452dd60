package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/moneymanager/internal/adapter/http/dto"
	"github.com/iho/moneymanager/internal/domain"
	"github.com/iho/moneymanager/internal/infrastructure/charts"
)

// ReportService defines the behavior needed by DashboardHandler.
type ReportService interface {
	Summary(ctx context.Context, kind domain.PeriodKind, ref time.Time) (*domain.DashboardSummary, error)
	Chart(ctx context.Context, kind domain.PeriodKind, year int) (*domain.ChartSeries, error)
	CategorySummary(ctx context.Context, r domain.DateRange, txType domain.TransactionType) ([]domain.CategorySummary, error)
	DivisionSummary(ctx context.Context, r domain.DateRange) (domain.DivisionSummary, error)
	CurrentMonth() domain.DateRange
	Location() *time.Location
	Now() time.Time
}

// DashboardHandler serves reports.
type DashboardHandler struct {
	reportUC ReportService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reportUC ReportService) *DashboardHandler {
	return &DashboardHandler{reportUC: reportUC}
}

// Summary totals the period containing ?date (default now).
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	kind := domain.ParsePeriodKind(r.URL.Query().Get("period"))

	ref := h.reportUC.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		var err error
		if ref, err = dto.ParseReferenceDate(raw, h.reportUC.Location()); err != nil {
			writeDomainError(w, r, "invalid date", err)
			return
		}
	}

	summary, err := h.reportUC.Summary(r.Context(), kind, ref)
	if err != nil {
		writeDomainError(w, r, "failed to build summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// Chart returns per-bucket income and expense for ?year.
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	series, ok := h.chartSeries(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.ChartFromDomain(series))
}

// ChartPNG renders the chart as an image.
func (h *DashboardHandler) ChartPNG(w http.ResponseWriter, r *http.Request) {
	series, ok := h.chartSeries(w, r)
	if !ok {
		return
	}

	img, err := charts.RenderChartPNG(series)
	if err != nil {
		writeImageError(w, r, err)
		return
	}
	writePNG(w, img)
}

// CategorySummary breaks one transaction type down by category.
func (h *DashboardHandler) CategorySummary(w http.ResponseWriter, r *http.Request) {
	rng, txType, ok := h.categoryQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.reportUC.CategorySummary(r.Context(), rng, txType)
	if err != nil {
		writeDomainError(w, r, "failed to build category summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategorySummariesFromDomain(summary))
}

// CategorySummaryPNG renders the category breakdown as a pie chart.
func (h *DashboardHandler) CategorySummaryPNG(w http.ResponseWriter, r *http.Request) {
	rng, txType, ok := h.categoryQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.reportUC.CategorySummary(r.Context(), rng, txType)
	if err != nil {
		writeDomainError(w, r, "failed to build category summary", err)
		return
	}

	title := fmt.Sprintf("%s by category, %s to %s", txType,
		rng.Start.Format(time.DateOnly), rng.End.Format(time.DateOnly))
	img, err := charts.RenderCategoryPNG(title, summary)
	if err != nil {
		writeImageError(w, r, err)
		return
	}
	writePNG(w, img)
}

// DivisionSummary totals each division over the range.
func (h *DashboardHandler) DivisionSummary(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeOrCurrentMonth(w, r)
	if !ok {
		return
	}

	summary, err := h.reportUC.DivisionSummary(r.Context(), rng)
	if err != nil {
		writeDomainError(w, r, "failed to build division summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DivisionSummaryFromDomain(summary))
}

func (h *DashboardHandler) chartSeries(w http.ResponseWriter, r *http.Request) (*domain.ChartSeries, bool) {
	kind := domain.ParsePeriodKind(r.URL.Query().Get("period"))

	year := h.reportUC.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year", err.Error())
			return nil, false
		}
		year = y
	}

	series, err := h.reportUC.Chart(r.Context(), kind, year)
	if err != nil {
		writeDomainError(w, r, "failed to build chart", err)
		return nil, false
	}
	return series, true
}

func (h *DashboardHandler) categoryQuery(w http.ResponseWriter, r *http.Request) (domain.DateRange, domain.TransactionType, bool) {
	txType, err := domain.ParseTransactionType(r.URL.Query().Get("type"))
	if err != nil {
		writeDomainError(w, r, "invalid type", err)
		return domain.DateRange{}, "", false
	}

	rng, ok := h.rangeOrCurrentMonth(w, r)
	return rng, txType, ok
}

func (h *DashboardHandler) rangeOrCurrentMonth(w http.ResponseWriter, r *http.Request) (domain.DateRange, bool) {
	rng, err := parseRangeQuery(r, h.reportUC.Location())
	if err != nil {
		writeDomainError(w, r, "invalid date range", err)
		return domain.DateRange{}, false
	}
	if rng == nil {
		return h.reportUC.CurrentMonth(), true
	}
	return *rng, true
}

func writePNG(w http.ResponseWriter, img []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

func writeImageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, charts.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeDomainError(w, r, "failed to render chart", err)
}
