package usecase

import (
	"attendance/domain"
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type fakeAttendanceRepo struct {
	rows    []domain.Attendance
	counts  domain.StatusCounts
	created []domain.Attendance
	err     error
}

func (f *fakeAttendanceRepo) GetAttendance(ctx context.Context, filter domain.AttendanceFilter) (*[]domain.Attendance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.rows, nil
}

func (f *fakeAttendanceRepo) CountByStatus(ctx context.Context, filter domain.AttendanceFilter) (*domain.StatusCounts, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.counts, nil
}

func (f *fakeAttendanceRepo) CreateAttendance(ctx context.Context, data *domain.Attendance) error {
	if f.err != nil {
		return f.err
	}
	data.AttendanceID = len(f.created) + 1
	f.created = append(f.created, *data)
	return nil
}

func (f *fakeAttendanceRepo) CreateAttendanceBulk(ctx context.Context, datas *[]domain.Attendance) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *datas...)
	return nil
}

func strPtr(s string) *string { return &s }

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		counts   domain.StatusCounts
		wantRate string
		wantAbs  string
		wantTot  int
	}{
		{"empty", domain.StatusCounts{}, "0.00", "0.00", 0},
		{"all present", domain.StatusCounts{Present: 4}, "100.00", "0.00", 4},
		{"mixed", domain.StatusCounts{Present: 1, Absent: 1, Late: 1}, "66.67", "33.33", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.counts)
			if got.TotalRecords != tt.wantTot || got.AttendanceRate != tt.wantRate || got.AbsenteeRate != tt.wantAbs {
				t.Fatalf("Summarize(%+v) = %+v", tt.counts, got)
			}
		})
	}
}

func TestGetAttendanceFlattensRows(t *testing.T) {
	repo := &fakeAttendanceRepo{rows: []domain.Attendance{{
		AttendanceID: 5,
		StudentID:    1,
		Student:      domain.Student{StudentID: 1, Name: "Ayu"},
		ClassID:      3,
		Class:        domain.Class{ClassID: 3, Name: "7A"},
		Date:         "2024-03-01",
		Status:       domain.StatusLate,
		TimeIn:       strPtr("08:20:00"),
		MarkedBy:     "admin",
	}}}
	uc := NewAttendanceUseCase(repo, time.Second)

	got, err := uc.GetAttendance(context.Background(), domain.AttendanceFilter{Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("GetAttendance: %v", err)
	}
	if len(*got) != 1 {
		t.Fatalf("got %d records", len(*got))
	}
	rec := (*got)[0]
	if rec.ID != 5 || rec.StudentName != "Ayu" || rec.ClassName != "7A" || rec.Status != domain.StatusLate {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestGetAttendanceRejectsBadDate(t *testing.T) {
	uc := NewAttendanceUseCase(&fakeAttendanceRepo{}, time.Second)
	_, err := uc.GetAttendance(context.Background(), domain.AttendanceFilter{Date: "01/03/2024"})
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
}

func TestMarkAttendanceDropsTimesForAbsent(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	uc := NewAttendanceUseCase(repo, time.Second)

	_, err := uc.MarkAttendance(context.Background(), &domain.MarkPayload{
		StudentID: 9,
		ClassID:   3,
		Date:      "2024-03-01",
		Status:    domain.StatusAbsent,
		TimeIn:    strPtr("08:00:00"),
		TimeOut:   strPtr("15:00:00"),
		Remarks:   "sick",
	}, "teacher1")
	if err != nil {
		t.Fatalf("MarkAttendance: %v", err)
	}

	row := repo.created[0]
	if row.TimeIn != nil || row.TimeOut != nil {
		t.Fatalf("absent row kept times: %v %v", row.TimeIn, row.TimeOut)
	}
	if row.MarkedBy != "teacher1" || row.Remarks != "sick" {
		t.Fatalf("unexpected row %+v", row)
	}
}

func TestMarkAttendanceBulk(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	uc := NewAttendanceUseCase(repo, time.Second)

	_, err := uc.MarkAttendanceBulk(context.Background(), &domain.BulkPayload{}, "admin")
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("empty batch err = %v", err)
	}

	res, err := uc.MarkAttendanceBulk(context.Background(), &domain.BulkPayload{AttendanceRecords: []domain.MarkPayload{
		{StudentID: 7, ClassID: 3, Date: "2024-03-01", Status: domain.StatusPresent},
		{StudentID: 9, ClassID: 3, Date: "2024-03-01", Status: domain.StatusAbsent, Remarks: "sick"},
	}}, "admin")
	if err != nil {
		t.Fatalf("MarkAttendanceBulk: %v", err)
	}
	if res.Created != 2 || len(repo.created) != 2 {
		t.Fatalf("created = %d, stored = %d", res.Created, len(repo.created))
	}

	_, err = uc.MarkAttendanceBulk(context.Background(), &domain.BulkPayload{AttendanceRecords: []domain.MarkPayload{
		{StudentID: 7, ClassID: 3, Date: "2024-03-01", Status: "excused"},
	}}, "admin")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("invalid status err = %v", err)
	}
}

type fakeUserRepo struct {
	user *domain.User
}

func (f *fakeUserRepo) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if f.user == nil || f.user.Username != username {
		return nil, domain.ErrNotFound
	}
	return f.user, nil
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	uc := NewAuthUseCase(&fakeUserRepo{user: &domain.User{UserID: 1, Username: "admin", Password: string(hash), Role: "admin"}}, time.Second)

	if _, err := uc.Login(context.Background(), &domain.LoginRequest{Username: "admin", Password: "secret"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := uc.Login(context.Background(), &domain.LoginRequest{Username: "admin", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := uc.Login(context.Background(), &domain.LoginRequest{Username: "ghost", Password: "secret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
}
