package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
	"github.com/medready/enroll-advisor-api/pkg/config"
	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
)

// CatalogRepository fetches the course index and payment table CSV exports
// and parses them into an immutable snapshot. Malformed cells degrade to
// documented defaults instead of failing the whole load; a row without a
// course code is the only thing dropped outright.
type CatalogRepository struct {
	coursesURL  string
	paymentsURL string
	httpc       *http.Client
	logger      *zap.Logger
	now         func() time.Time
}

// NewCatalogRepository constructs the loader.
func NewCatalogRepository(cfg config.CatalogConfig, logger *zap.Logger) *CatalogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CatalogRepository{
		coursesURL:  cfg.CoursesURL,
		paymentsURL: cfg.PaymentsURL,
		httpc:       &http.Client{Timeout: timeout},
		logger:      logger,
		now:         time.Now,
	}
}

// Load fetches both exports and returns a fresh snapshot.
func (r *CatalogRepository) Load(ctx context.Context) (*models.CatalogSnapshot, error) {
	courses, err := r.loadCourses(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := r.loadPayments(ctx)
	if err != nil {
		return nil, err
	}
	return &models.CatalogSnapshot{
		Courses:   courses,
		Payments:  payments,
		FetchedAt: r.now().UTC(),
	}, nil
}

func (r *CatalogRepository) loadCourses(ctx context.Context) ([]models.CourseRow, error) {
	records, header, err := r.fetchCSV(ctx, r.coursesURL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "course index fetch failed")
	}

	rows := make([]models.CourseRow, 0, len(records))
	for _, rec := range records {
		code := strings.TrimSpace(cell(rec, header, "course_code"))
		if code == "" {
			continue
		}
		rows = append(rows, models.CourseRow{
			CourseCode:           code,
			CourseName:           strings.TrimSpace(cell(rec, header, "course_name")),
			CertificatesIncluded: parseCertificates(cell(rec, header, "certificates_included")),
			Link:                 strings.TrimSpace(cell(rec, header, "link")),
			Priority:             parsePriority(cell(rec, header, "priority")),
			PIFDiscountAvailable: parseBoolish(cell(rec, header, "pif_discount_available")),
		})
	}
	return rows, nil
}

func (r *CatalogRepository) loadPayments(ctx context.Context) ([]models.PaymentRow, error) {
	records, header, err := r.fetchCSV(ctx, r.paymentsURL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCatalogUnavailable.Code, appErrors.ErrCatalogUnavailable.Status, "payment table fetch failed")
	}

	rows := make([]models.PaymentRow, 0, len(records))
	for _, rec := range records {
		code := strings.TrimSpace(cell(rec, header, "course_code"))
		if code == "" {
			continue
		}
		rows = append(rows, models.PaymentRow{
			CourseCode:            code,
			TuitionPrice:          parseMoney(cell(rec, header, "tuition_price")),
			DiscountApplicable:    parseBoolish(cell(rec, header, "paidinfull_discountapplicable")),
			PaymentPlanApplicable: parseBoolish(cell(rec, header, "paymentplan_applicable")),
			PlanLengthWeeks:       parsePlanLength(cell(rec, header, "planlength_weeks")),
			Frequency:             parseFrequency(cell(rec, header, "frequency")),
		})
	}
	return rows, nil
}

// fetchCSV returns the data records and a lowercased header index.
func (r *CatalogRepository) fetchCSV(ctx context.Context, url string) ([][]string, map[string]int, error) {
	if url == "" {
		return nil, nil, fmt.Errorf("export URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build export request: %w", err)
	}

	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("export status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	headerRec, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read export header: %w", err)
	}
	header := make(map[string]int, len(headerRec))
	for i, name := range headerRec {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.logger.Warn("skipping malformed export row", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, header, nil
}

func cell(rec []string, header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func parseCertificates(raw string) []models.CertificateGoal {
	parts := strings.Split(raw, ",")
	out := make([]models.CertificateGoal, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, models.CertificateGoal(p))
		}
	}
	return out
}

func parsePriority(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return models.DefaultPriority
	}
	return n
}

func parsePlanLength(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return models.DefaultPlanLengthWeeks
	}
	return n
}

func parseFrequency(raw string) models.PaymentFrequency {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(models.FrequencyBiweekly):
		return models.FrequencyBiweekly
	default:
		return models.FrequencyWeekly
	}
}

func parseBoolish(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

func parseMoney(raw string) int {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(math.Round(f))
}
