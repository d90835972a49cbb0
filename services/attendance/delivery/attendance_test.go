package delivery

import (
	"attendance/config"
	"attendance/domain"
	"attendance/middleware"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type fakeAttendanceUC struct {
	records   []domain.AttendanceRecord
	summary   domain.AttendanceSummary
	err       error
	gotFilter domain.AttendanceFilter
	gotMark   *domain.MarkPayload
	gotBulk   *domain.BulkPayload
	gotActor  string
}

func (f *fakeAttendanceUC) GetAttendance(ctx context.Context, filter domain.AttendanceFilter) (*[]domain.AttendanceRecord, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &f.records, nil
}

func (f *fakeAttendanceUC) GetSummary(ctx context.Context, filter domain.AttendanceFilter) (*domain.AttendanceSummary, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &f.summary, nil
}

func (f *fakeAttendanceUC) MarkAttendance(ctx context.Context, payload *domain.MarkPayload, markedBy string) (*domain.AttendanceRecord, error) {
	f.gotMark, f.gotActor = payload, markedBy
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AttendanceRecord{ID: 1, StudentID: payload.StudentID, Status: payload.Status, MarkedBy: markedBy}, nil
}

func (f *fakeAttendanceUC) MarkAttendanceBulk(ctx context.Context, payload *domain.BulkPayload, markedBy string) (*domain.BulkResult, error) {
	f.gotBulk, f.gotActor = payload, markedBy
	if f.err != nil {
		return nil, f.err
	}
	return &domain.BulkResult{Created: len(payload.AttendanceRecords)}, nil
}

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func newTestApp(t *testing.T, uc domain.AttendanceUseCase) (*fiber.App, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "delivery-secret")

	app := fiber.New(config.GetFiberConfig())
	NewAttendanceDelivery(app, uc)

	token, err := middleware.GenerateJWT(1, "teacher1", "staff")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return app, token
}

func do(t *testing.T, app *fiber.App, token, method, target, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return resp.StatusCode, env
}

func TestGetAttendanceRequiresToken(t *testing.T) {
	app, _ := newTestApp(t, &fakeAttendanceUC{})

	status, _ := do(t, app, "", http.MethodGet, "/attendance?date=2024-03-01", "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

func TestGetAttendanceParsesFilter(t *testing.T) {
	uc := &fakeAttendanceUC{records: []domain.AttendanceRecord{{ID: 1, StudentID: 7}}}
	app, token := newTestApp(t, uc)

	status, env := do(t, app, token, http.MethodGet, "/attendance?date=2024-03-01&classId=3", "")
	if status != fiber.StatusOK || !env.Success {
		t.Fatalf("status = %d, env = %+v", status, env)
	}
	if uc.gotFilter != (domain.AttendanceFilter{Date: "2024-03-01", ClassID: 3}) {
		t.Fatalf("filter = %+v", uc.gotFilter)
	}

	status, _ = do(t, app, token, http.MethodGet, "/attendance?date=2024-03-01&classId=abc", "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("bad classId status = %d", status)
	}
}

func TestMarkAttendanceDuplicate(t *testing.T) {
	uc := &fakeAttendanceUC{err: domain.ErrDuplicateRecord}
	app, token := newTestApp(t, uc)

	status, env := do(t, app, token, http.MethodPost, "/attendance",
		`{"studentId":7,"classId":3,"date":"2024-03-01","status":"present","timeIn":null,"timeOut":null,"remarks":""}`)
	if status != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409", status)
	}
	if env.Message != "Duplicate record" {
		t.Fatalf("message = %q", env.Message)
	}
	if uc.gotActor != "teacher1" {
		t.Fatalf("markedBy = %q", uc.gotActor)
	}
}

func TestMarkAttendanceValidation(t *testing.T) {
	uc := &fakeAttendanceUC{}
	app, token := newTestApp(t, uc)

	status, env := do(t, app, token, http.MethodPost, "/attendance", `{"studentId":7,"date":"2024-03-01","status":"sleeping"}`)
	if status != fiber.StatusBadRequest || env.Success {
		t.Fatalf("status = %d, env = %+v", status, env)
	}
	if uc.gotMark != nil {
		t.Fatal("use case called with invalid payload")
	}
}

func TestMarkAttendanceBulk(t *testing.T) {
	uc := &fakeAttendanceUC{}
	app, token := newTestApp(t, uc)

	status, env := do(t, app, token, http.MethodPost, "/attendance/bulk", `{"attendanceRecords":[
		{"studentId":7,"classId":3,"date":"2024-03-01","status":"present","timeIn":"08:00:00","timeOut":"15:00:00","remarks":""},
		{"studentId":9,"classId":3,"date":"2024-03-01","status":"absent","timeIn":null,"timeOut":null,"remarks":"sick"}
	]}`)
	if status != fiber.StatusCreated || !env.Success {
		t.Fatalf("status = %d, env = %+v", status, env)
	}
	if got := len(uc.gotBulk.AttendanceRecords); got != 2 {
		t.Fatalf("bulk rows = %d", got)
	}
	if rec := uc.gotBulk.AttendanceRecords[1]; rec.TimeIn != nil || rec.Remarks != "sick" {
		t.Fatalf("second row = %+v", rec)
	}
}

func TestGetSummaryFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	uc := &fakeAttendanceUC{err: errors.New("connection refused")}
	app, token := newTestApp(t, uc)

	status, env := do(t, app, token, http.MethodGet, "/attendance/summary?date=2024-03-01", "")
	if status != fiber.StatusInternalServerError || env.Message != "Failed to retrieve attendance summary" {
		t.Fatalf("status = %d, env = %+v", status, env)
	}
	if !strings.Contains(logs.String(), "Failed to get attendance summary: connection refused") {
		t.Fatalf("log output = %q", logs.String())
	}
}
