package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/timerule"
	"github.com/senani-kuruwita/attendance-backend/internal/handler/http/response"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/export"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/jwt"
	"github.com/senani-kuruwita/attendance-backend/internal/repository/kvstore"
	attendanceService "github.com/senani-kuruwita/attendance-backend/internal/service/attendance"
	authService "github.com/senani-kuruwita/attendance-backend/internal/service/auth"
	employeeService "github.com/senani-kuruwita/attendance-backend/internal/service/employee"
	"github.com/senani-kuruwita/attendance-backend/internal/service/payroll"
	reportService "github.com/senani-kuruwita/attendance-backend/internal/service/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (n *recordingNotifier) Queue(msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *recordingNotifier) Stop(context.Context) error { return nil }

func (n *recordingNotifier) count(typ notification.Type) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.msgs {
		if m.Type == typ {
			c++
		}
	}
	return c
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

type testServer struct {
	t        *testing.T
	handler  http.Handler
	clock    time.Time
	notifier *recordingNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := kvstore.NewMemory()

	employees, err := employeeService.NewEmployeeService(ctx, kvstore.NewEmployeeRepository(store), employeeService.Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	n := &recordingNotifier{}
	ledger, err := attendanceService.NewAttendanceService(ctx,
		kvstore.NewAttendanceRepository(store),
		employees,
		payroll.NewCalculator(timerule.Default()),
		n,
		nil,
		attendanceService.Config{
			ShopName:   "SENANI KURUWITA",
			ShopCenter: geo.Point{Latitude: 6.7667, Longitude: 80.3667},
			Location:   time.UTC,
		},
	)
	require.NoError(t, err)

	reports := reportService.NewReportService(ledger, employees, n, reportService.Config{ShopName: "SENANI KURUWITA", Location: time.UTC})
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")

	s := &testServer{t: t, notifier: n, clock: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)}
	now := func() time.Time { return s.clock }

	handlers := Handlers{
		Auth:       NewAuthHandler(authService.NewAuthService(employees, jwtService)),
		Attendance: &attendanceHandlerImpl{attendanceService: ledger, reportService: reports, now: now},
		Employee:   NewEmployeeHandler(employees),
		Report:     &reportHandlerImpl{reportService: reports, location: time.UTC, now: now},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.handler = NewRouter(logger, []string{"http://localhost:3000"}, jwtService, handlers)
	return s
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &token))
	return token.AccessToken
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		rec1, env1 := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
		rec2, env2 := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ghost", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec1.Code)
		assert.Equal(t, http.StatusUnauthorized, rec2.Code)
		assert.Equal(t, env1.Error.Message, env2.Error.Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, env.Error.Details, "username")
		assert.Contains(t, env.Error.Details, "password")
	})

	t.Run("me requires a token", func(t *testing.T) {
		rec, _ := s.do(http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec, _ = s.do(http.MethodGet, "/api/v1/auth/me", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		token := s.login("shashi", "password")

		rec, env := s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(env.Data), `"username":"shashi"`)
		assert.NotContains(t, string(env.Data), "password")

		rec, _ = s.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, _ = s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminRoutesRejectEmployees(t *testing.T) {
	s := newTestServer(t)
	token := s.login("shashi", "password")

	for _, path := range []string{
		"/api/v1/employees",
		"/api/v1/attendance",
		"/api/v1/qr/current",
		"/api/v1/reports/dashboard",
		"/api/v1/reports/payslips",
	} {
		rec, _ := s.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestAttendanceRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login("shashi", "password")

	rec, _ := s.do(http.MethodPost, "/api/v1/attendance/check-out", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A check-in from outside the geofence
	rec, env := s.do(http.MethodPost, "/api/v1/attendance/check-in", token, map[string]any{"method": "GPS", "latitude": 7.0, "longitude": 80.3667})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Message, "away")

	// Coordinates on a manual check-in are refused rather than stored unverified
	rec, env = s.do(http.MethodPost, "/api/v1/attendance/check-in", token, map[string]any{"method": "MANUAL", "latitude": 7.0, "longitude": 80.3667})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "location")

	rec, _ = s.do(http.MethodPost, "/api/v1/attendance/check-in", token, map[string]any{"method": "GPS"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/attendance/check-in", token, map[string]any{"method": "QR", "code": "123456"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/attendance/check-in", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"status":"WORKING"`)
	assert.Contains(t, string(env.Data), `"is_late":false`)

	rec, _ = s.do(http.MethodPost, "/api/v1/attendance/check-in", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	s.clock = time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC)
	rec, env = s.do(http.MethodPost, "/api/v1/attendance/check-out", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"ot_minutes":60`)
	assert.Contains(t, string(env.Data), `"ot_pay":75`)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"status":"COMPLETED"`)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance/my", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"estimated_earnings":1275`)

	assert.Equal(t, 1, s.notifier.count(notification.TypeCheckIn))
	assert.Equal(t, 1, s.notifier.count(notification.TypeCheckOut))

	admin := s.login("admin", "1234")
	rec, env = s.do(http.MethodGet, "/api/v1/attendance?month=2024-01&user_id=emp-1", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.TotalItems)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance?month=January", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "month")

	rec, _ = s.do(http.MethodGet, "/api/v1/qr/current", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployeeRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin", "1234")

	rec, env := s.do(http.MethodGet, "/api/v1/employees", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, env.Meta.TotalItems)

	rec, env = s.do(http.MethodPost, "/api/v1/employees", admin, map[string]any{"name": "Nimal", "username": "nimal", "password": "secret"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID       string `json:"id"`
		DailyPay int64  `json:"daily_pay"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, int64(1200), created.DailyPay)

	rec, _ = s.do(http.MethodPost, "/api/v1/employees", admin, map[string]any{"name": "Other", "username": "nimal", "password": "secret"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = s.do(http.MethodPut, "/api/v1/employees/"+created.ID+"/daily-pay", admin, map[string]any{"daily_pay": 1500})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"daily_pay":1500`)

	rec, _ = s.do(http.MethodPut, "/api/v1/employees/"+created.ID+"/daily-pay", admin, map[string]any{"daily_pay": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/v1/employees/admin-0", admin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/v1/employees/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/v1/employees/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin", "1234")
	emp := s.login("avishka", "password")

	rec, _ := s.do(http.MethodPost, "/api/v1/attendance/check-in", emp, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/v1/reports/daily", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"present_count":1`)

	rec, env = s.do(http.MethodGet, "/api/v1/reports/monthly-cost?month=2024-01", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"total":1200`)

	rec, _ = s.do(http.MethodGet, "/api/v1/reports/monthly-cost?month=2024-1", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/reports/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"total_employees":3`)
	assert.Contains(t, string(env.Data), `"present_today":1`)

	rec, env = s.do(http.MethodGet, "/api/v1/reports/payslips/emp-2", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"days_worked":1`)

	rec, _ = s.do(http.MethodGet, "/api/v1/reports/payslips/ghost", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/reports/payslips/emp-2/send", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, s.notifier.count(notification.TypePayslip))

	rec, env = s.do(http.MethodGet, "/api/v1/reports/payslips", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, env.Meta.TotalItems)

	rec, _ = s.do(http.MethodGet, "/api/v1/reports/payslips/export?month=2024-01", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payslips-2024-01.xlsx")
	assert.NotZero(t, rec.Body.Len())
}
