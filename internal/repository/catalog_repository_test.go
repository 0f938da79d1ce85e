package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
	"github.com/medready/enroll-advisor-api/pkg/config"
)

const coursesCSV = `course_code,course_name,certificates_included,link,priority,pif_discount_available
NAT_101,Nursing Assistant Training,"Nursing Assistant Training",https://example.com/nat,1,yes
PHL_100,Phlebotomy Technician,"Phlebotomy Technician, EKG Technician",https://example.com/phl,not-a-number,0
,Orphan Row,Something,,2,true
EKG_100,EKG Technician,,,3,
`

const paymentsCSV = `course_code,tuition_price,paidinfull_discountapplicable,paymentplan_applicable,planlength_weeks,frequency
NAT_101,"$2,000.00",TRUE,yes,10,weekly
PHL_100,1495,,1,,Biweekly
,999,true,true,4,weekly
`

func csvServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestCatalogRepository(t *testing.T, courses, payments string) *CatalogRepository {
	t.Helper()
	return NewCatalogRepository(config.CatalogConfig{
		CoursesURL:  csvServer(t, courses).URL,
		PaymentsURL: csvServer(t, payments).URL,
		HTTPTimeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestCatalogLoadParsesCourses(t *testing.T) {
	repo := newTestCatalogRepository(t, coursesCSV, paymentsCSV)

	snapshot, err := repo.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, snapshot.Courses, 3)
	assert.False(t, snapshot.FetchedAt.IsZero())

	nat := snapshot.Courses[0]
	assert.Equal(t, "NAT_101", nat.CourseCode)
	assert.Equal(t, "Nursing Assistant Training", nat.CourseName)
	assert.Equal(t, []models.CertificateGoal{"nursing assistant training"}, nat.CertificatesIncluded)
	assert.Equal(t, 1, nat.Priority)
	assert.True(t, nat.PIFDiscountAvailable)

	phl := snapshot.Courses[1]
	assert.Equal(t, []models.CertificateGoal{"phlebotomy technician", "ekg technician"}, phl.CertificatesIncluded)
	// Unparseable priority degrades to the default.
	assert.Equal(t, models.DefaultPriority, phl.Priority)
	assert.False(t, phl.PIFDiscountAvailable)

	ekg := snapshot.Courses[2]
	assert.Equal(t, "EKG_100", ekg.CourseCode)
	assert.Empty(t, ekg.CertificatesIncluded)
}

func TestCatalogLoadParsesPayments(t *testing.T) {
	repo := newTestCatalogRepository(t, coursesCSV, paymentsCSV)

	snapshot, err := repo.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, snapshot.Payments, 2)

	nat := snapshot.Payments[0]
	assert.Equal(t, "NAT_101", nat.CourseCode)
	assert.Equal(t, 2000, nat.TuitionPrice)
	assert.True(t, nat.DiscountApplicable)
	assert.True(t, nat.PaymentPlanApplicable)
	assert.Equal(t, 10, nat.PlanLengthWeeks)
	assert.Equal(t, models.FrequencyWeekly, nat.Frequency)

	phl := snapshot.Payments[1]
	assert.Equal(t, 1495, phl.TuitionPrice)
	assert.False(t, phl.DiscountApplicable)
	assert.True(t, phl.PaymentPlanApplicable)
	assert.Equal(t, models.DefaultPlanLengthWeeks, phl.PlanLengthWeeks)
	assert.Equal(t, models.FrequencyBiweekly, phl.Frequency)
}

func TestCatalogLoadDropsRowsWithoutCourseCode(t *testing.T) {
	repo := newTestCatalogRepository(t, coursesCSV, paymentsCSV)

	snapshot, err := repo.Load(context.Background())

	require.NoError(t, err)
	for _, c := range snapshot.Courses {
		assert.NotEmpty(t, c.CourseCode)
	}
	for _, p := range snapshot.Payments {
		assert.NotEmpty(t, p.CourseCode)
	}
}

func TestCatalogLoadUpstreamErrorStatus(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(failing.Close)

	repo := NewCatalogRepository(config.CatalogConfig{
		CoursesURL:  failing.URL,
		PaymentsURL: failing.URL,
		HTTPTimeout: 5 * time.Second,
	}, zap.NewNop())

	_, err := repo.Load(context.Background())

	assert.Error(t, err)
}

func TestCatalogLoadMissingURL(t *testing.T) {
	repo := NewCatalogRepository(config.CatalogConfig{}, zap.NewNop())

	_, err := repo.Load(context.Background())

	assert.Error(t, err)
}

func TestParseMoneyFormats(t *testing.T) {
	cases := map[string]int{
		"$2,000.00": 2000,
		"1495":      1495,
		"1499.5":    1500,
		"":          0,
		"free":      0,
		"-50":       0,
	}
	for raw, want := range cases {
		assert.Equal(t, want, parseMoney(raw), "raw=%q", raw)
	}
}

func TestParseBoolishFormats(t *testing.T) {
	for _, raw := range []string{"true", "TRUE", "yes", "Y", "1"} {
		assert.True(t, parseBoolish(raw), "raw=%q", raw)
	}
	for _, raw := range []string{"", "no", "false", "0", "maybe"} {
		assert.False(t, parseBoolish(raw), "raw=%q", raw)
	}
}
