package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/jimbobirecode/teemail-backend/configs"
	"github.com/jimbobirecode/teemail-backend/database"
	"github.com/jimbobirecode/teemail-backend/handlers"
	"github.com/jimbobirecode/teemail-backend/models"
	"github.com/jimbobirecode/teemail-backend/routes"
	"github.com/jimbobirecode/teemail-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAPIKey    = "test-bot-key"
	testJWTSecret = "test-jwt-secret"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("WAITLIST_API_KEY", testAPIKey)
	t.Setenv("JWT_SECRET", testJWTSecret)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.WaitlistEntry{},
		&models.Booking{},
		&models.PaymentRecord{},
		&models.StaffUser{},
		&models.InboundEmail{},
	))
	database.DB = db

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.WaitlistRoutes(app)
	routes.BookingRoutes(app)
	routes.PaymentRoutes(app)
	routes.EmailRoutes(app)
	return app
}

func httpDo(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "text/csv" {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func botHeaders() map[string]string {
	return map[string]string{"X-API-Key": testAPIKey}
}

func staffToken(t *testing.T, username, club string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  uint(1),
		"username": username,
		"club":     club,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func staffHeaders(t *testing.T, club string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + staffToken(t, "anna", club)}
}

func addWaitlistBody() map[string]interface{} {
	return map[string]interface{}{
		"guest_email":      "guest@example.com",
		"guest_name":       "Guest",
		"requested_date":   "2026-09-15",
		"club":             "pebble-creek",
		"players":          2,
		"opt_in_confirmed": true,
	}
}

func TestWaitlistRoutesRequireAPIKey(t *testing.T) {
	app := setupApp(t)

	resp, body := httpDo(t, app, "POST", "/api/v1/waitlist/add", addWaitlistBody(), nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid or missing API key", body["error"])

	resp, _ = httpDo(t, app, "POST", "/api/v1/waitlist/add", addWaitlistBody(),
		map[string]string{"X-API-Key": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The key is also accepted as a bearer token.
	resp, _ = httpDo(t, app, "POST", "/api/v1/waitlist/add", addWaitlistBody(),
		map[string]string{"Authorization": "Bearer " + testAPIKey})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAddToWaitlistAndDuplicate(t *testing.T) {
	app := setupApp(t)

	resp, body := httpDo(t, app, "POST", "/api/v1/waitlist/add", addWaitlistBody(), botHeaders())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, body["success"])
	waitlistID := body["waitlist_id"].(string)
	require.NotEmpty(t, waitlistID)

	resp, body = httpDo(t, app, "POST", "/api/v1/waitlist/add", addWaitlistBody(), botHeaders())
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Customer already on waitlist for this date", body["message"])
	require.Equal(t, waitlistID, body["waitlist_id"])
	require.Equal(t, "Waiting", body["status"])
}

func TestAddToWaitlistValidation(t *testing.T) {
	app := setupApp(t)

	body := addWaitlistBody()
	body["opt_in_confirmed"] = false
	resp, _ := httpDo(t, app, "POST", "/api/v1/waitlist/add", body, botHeaders())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body = addWaitlistBody()
	body["requested_date"] = "15/09/2026"
	resp, _ = httpDo(t, app, "POST", "/api/v1/waitlist/add", body, botHeaders())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckWaitlistEndpoint(t *testing.T) {
	app := setupApp(t)

	resp, _ := httpDo(t, app, "POST", "/api/v1/waitlist/add", addWaitlistBody(), botHeaders())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := httpDo(t, app, "GET",
		"/api/v1/waitlist/check?email=guest@example.com&club=pebble-creek", nil, botHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["on_waitlist"])
	require.Equal(t, float64(1), body["count"])

	resp, body = httpDo(t, app, "GET",
		"/api/v1/waitlist/check?email=nobody@example.com&club=pebble-creek", nil, botHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, body["on_waitlist"])

	resp, _ = httpDo(t, app, "GET", "/api/v1/waitlist/check?email=guest@example.com", nil, botHeaders())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateAndRemoveWaitlistEndpoints(t *testing.T) {
	app := setupApp(t)

	resp, body := httpDo(t, app, "POST", "/api/v1/waitlist/add", addWaitlistBody(), botHeaders())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	waitlistID := body["waitlist_id"].(string)

	resp, body = httpDo(t, app, "PUT", "/api/v1/waitlist/update/"+waitlistID,
		map[string]interface{}{"status": "Notified", "notification_sent": true}, botHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Notified", body["status"])

	resp, _ = httpDo(t, app, "PUT", "/api/v1/waitlist/update/"+waitlistID,
		map[string]interface{}{"status": "Waiting"}, botHeaders())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = httpDo(t, app, "PUT", "/api/v1/waitlist/update/"+waitlistID,
		map[string]interface{}{}, botHeaders())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = httpDo(t, app, "DELETE", "/api/v1/waitlist/remove/"+waitlistID, nil, botHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = httpDo(t, app, "DELETE", "/api/v1/waitlist/remove/"+waitlistID, nil, botHeaders())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetWaitlistMatchesEndpoint(t *testing.T) {
	app := setupApp(t)

	for i, priority := range []int{3, 8} {
		body := addWaitlistBody()
		body["guest_email"] = fmt.Sprintf("guest%d@example.com", i)
		body["priority"] = priority
		resp, _ := httpDo(t, app, "POST", "/api/v1/waitlist/add", body, botHeaders())
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := httpDo(t, app, "GET",
		"/api/v1/waitlist/matches?date=2026-09-15&club=pebble-creek&time=10:00%20AM", nil, botHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(2), body["matches_found"])
	matches := body["matches"].([]interface{})
	first := matches[0].(map[string]interface{})
	require.Equal(t, "guest1@example.com", first["guest_email"])
}

func TestStaffLoginFlow(t *testing.T) {
	app := setupApp(t)

	temp := "initial-temp-pass"
	require.NoError(t, database.DB.Create(&models.StaffUser{
		Username:           "anna",
		FullName:           "Anna Staff",
		Club:               "pebble-creek",
		TempPassword:       &temp,
		MustChangePassword: true,
		IsActive:           true,
	}).Error)

	// First login with the temporary password yields no token.
	resp, body := httpDo(t, app, "POST", "/api/v1/auth/login",
		map[string]string{"username": "anna", "password": temp}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["must_change_password"])
	require.Empty(t, body["token"])

	resp, body = httpDo(t, app, "POST", "/api/v1/auth/set-password",
		map[string]string{"username": "anna", "temp_password": temp, "new_password": "correct-horse-battery"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	// The temporary password is burned once a permanent one is set.
	resp, _ = httpDo(t, app, "POST", "/api/v1/auth/login",
		map[string]string{"username": "anna", "password": temp}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = httpDo(t, app, "POST", "/api/v1/auth/login",
		map[string]string{"username": "anna", "password": "correct-horse-battery"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["token"])

	// The issued token opens the dashboard routes.
	req := httptest.NewRequest("GET", "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
}

func TestBookingRoutesRequireJWT(t *testing.T) {
	app := setupApp(t)

	resp, _ := httpDo(t, app, "GET", "/api/v1/bookings", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBookingStatusEndpoint(t *testing.T) {
	app := setupApp(t)

	require.NoError(t, database.DB.Create(&models.Booking{
		BookingID:     "BOOK-100",
		GuestEmail:    "guest@example.com",
		Club:          "pebble-creek",
		Date:          time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:        models.BookingStatusRequested,
		PaymentStatus: models.PaymentStatusNotRequested,
	}).Error)

	resp, body := httpDo(t, app, "PUT", "/api/v1/bookings/BOOK-100/status",
		map[string]string{"status": "Confirmed"}, staffHeaders(t, "pebble-creek"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Confirmed", body["status"])

	resp, _ = httpDo(t, app, "PUT", "/api/v1/bookings/BOOK-100/status",
		map[string]string{"status": "Inquiry"}, staffHeaders(t, "pebble-creek"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A staff token for another club cannot read the booking.
	resp, _ = httpDo(t, app, "GET", "/api/v1/bookings/BOOK-100", nil, staffHeaders(t, "other-club"))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

type recordingIssuer struct {
	calls int
}

func (r *recordingIssuer) CreatePaymentLink(amount float64, currency, reference string) (string, string, error) {
	r.calls++
	linkID := fmt.Sprintf("plink_%d", r.calls)
	return linkID, "https://pay.example.com/" + linkID, nil
}

type noopMailer struct{}

func (noopMailer) Send(toName, toEmail, subject, htmlContent string) error { return nil }

func TestPaymentRequestAndStatusEndpoints(t *testing.T) {
	app := setupApp(t)

	handlers.Tracker = services.NewPaymentTracker(
		config.LoadPaymentConfig(), &recordingIssuer{}, noopMailer{},
	)

	require.NoError(t, database.DB.Create(&models.Booking{
		BookingID:      "BOOK-200",
		GuestEmail:     "guest@example.com",
		Club:           "pebble-creek",
		Date:           time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Total:          500,
		IsTourOperator: true,
		Status:         models.BookingStatusConfirmed,
		PaymentStatus:  models.PaymentStatusNotRequested,
	}).Error)

	resp, body := httpDo(t, app, "POST", "/api/v1/bookings/BOOK-200/payments/request",
		map[string]string{"payment_type": "deposit"}, staffHeaders(t, "pebble-creek"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 250.0, body["amount"])
	require.Equal(t, true, body["email_sent"])

	var record models.PaymentRecord
	require.NoError(t, database.DB.Where("payment_id = ?", body["payment_id"]).First(&record).Error)
	require.NotNil(t, record.PaymentLinkID)
	linkID := *record.PaymentLinkID

	resp, _ = httpDo(t, app, "POST", "/api/v1/payments/status",
		map[string]interface{}{"correlation_id": linkID, "status": "paid"}, botHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshed models.Booking
	require.NoError(t, database.DB.Where("booking_id = ?", "BOOK-200").First(&refreshed).Error)
	require.Equal(t, models.PaymentStatusDepositPaid, refreshed.PaymentStatus)
	require.Equal(t, 250.0, refreshed.TotalPaid)

	// Unknown correlation ids are reported, not swallowed.
	resp, _ = httpDo(t, app, "POST", "/api/v1/payments/status",
		map[string]interface{}{"correlation_id": "plink_unknown", "status": "paid"}, botHeaders())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInboundEmailEndpoints(t *testing.T) {
	app := setupApp(t)

	require.NoError(t, database.DB.Create(&models.Booking{
		BookingID:     "BOOK-300",
		GuestEmail:    "guest@example.com",
		Club:          "pebble-creek",
		Date:          time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:        models.BookingStatusRequested,
		PaymentStatus: models.PaymentStatusNotRequested,
	}).Error)

	resp, body := httpDo(t, app, "POST", "/api/v1/emails/inbound", map[string]interface{}{
		"message_id": "msg-1",
		"from_email": "guest@example.com",
		"subject":    "Re: your tee time",
		"booking_id": "BOOK-300",
	}, botHeaders())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, body["created"])

	// Redelivery acks without duplicating.
	resp, body = httpDo(t, app, "POST", "/api/v1/emails/inbound", map[string]interface{}{
		"message_id": "msg-1",
		"from_email": "guest@example.com",
	}, botHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, body["created"])

	resp, body = httpDo(t, app, "GET", "/api/v1/bookings/BOOK-300/emails", nil,
		staffHeaders(t, "pebble-creek"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(1), body["count"])
}
