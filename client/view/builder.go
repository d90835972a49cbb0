package view

import (
	"attendance/domain"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingField    = errors.New("required field is empty")
	ErrInvalidID       = errors.New("id must be a positive integer")
	ErrNothingToSubmit = errors.New("no attendance entries to submit")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("form"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

// bulkTarget is the class/date pair every bulk row is stamped with.
type bulkTarget struct {
	ClassID string `form:"classId" validate:"required,numeric"`
	Date    string `form:"date" validate:"required,datetime=2006-01-02"`
}

// checkDraft validates s and maps the first failure onto the builder errors.
func checkDraft(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s: %w", fe.Field(), ErrMissingField)
	case "numeric":
		return fmt.Errorf("%s: %w", fe.Field(), ErrInvalidID)
	case "datetime":
		return fmt.Errorf("%s: %w", fe.Field(), domain.ErrInvalidDate)
	case "oneof":
		return fmt.Errorf("%s: %w: %q", fe.Field(), domain.ErrInvalidStatus, fe.Value())
	default:
		return fmt.Errorf("%s: failed %s", fe.Field(), fe.Tag())
	}
}

func parseID(field, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: %w", field, ErrInvalidID)
	}
	return id, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// BuildMarkPayload validates a single-record draft and coerces it into the
// create payload. Times and remarks are sent as entered.
func BuildMarkPayload(draft domain.MarkDraft) (domain.MarkPayload, error) {
	draft.StudentID = strings.TrimSpace(draft.StudentID)
	draft.ClassID = strings.TrimSpace(draft.ClassID)
	draft.Date = strings.TrimSpace(draft.Date)

	if err := checkDraft(draft); err != nil {
		return domain.MarkPayload{}, err
	}

	studentID, err := parseID("studentId", draft.StudentID)
	if err != nil {
		return domain.MarkPayload{}, err
	}
	classID, err := parseID("classId", draft.ClassID)
	if err != nil {
		return domain.MarkPayload{}, err
	}

	status := domain.StatusPresent
	if draft.Status != "" {
		status = domain.Status(draft.Status)
	}

	return domain.MarkPayload{
		StudentID: studentID,
		ClassID:   classID,
		Date:      draft.Date,
		Status:    status,
		TimeIn:    optional(draft.TimeIn),
		TimeOut:   optional(draft.TimeOut),
		Remarks:   draft.Remarks,
	}, nil
}

// BuildBulkPayload turns the bulk draft into one row per touched student,
// ordered by student id. Times come from session: absent rows get none.
func BuildBulkPayload(draft domain.BulkDraft, classID, date string, session domain.Session) (domain.BulkPayload, error) {
	if len(draft) == 0 {
		return domain.BulkPayload{}, ErrNothingToSubmit
	}

	target := bulkTarget{
		ClassID: strings.TrimSpace(classID),
		Date:    strings.TrimSpace(date),
	}
	if err := checkDraft(target); err != nil {
		return domain.BulkPayload{}, err
	}
	class, err := parseID("classId", target.ClassID)
	if err != nil {
		return domain.BulkPayload{}, err
	}

	ids := make([]int, 0, len(draft))
	for id := range draft {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rows := make([]domain.MarkPayload, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return domain.BulkPayload{}, fmt.Errorf("studentId %d: %w", id, ErrInvalidID)
		}

		entry := draft[id]
		status := entry.StatusOrDefault()
		if !status.Valid() {
			return domain.BulkPayload{}, fmt.Errorf("studentId %d: %w: %q", id, domain.ErrInvalidStatus, status)
		}

		row := domain.MarkPayload{
			StudentID: id,
			ClassID:   class,
			Date:      target.Date,
			Status:    status,
			Remarks:   entry.Remarks,
		}
		if status != domain.StatusAbsent {
			row.TimeIn = optional(session.TimeIn)
			row.TimeOut = optional(session.TimeOut)
		}
		rows = append(rows, row)
	}

	return domain.BulkPayload{AttendanceRecords: rows}, nil
}
