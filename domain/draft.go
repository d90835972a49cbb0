package domain

// MarkDraft is the single-record form buffer. Every field stays a string until
// the payload is built.
type MarkDraft struct {
	StudentID string `form:"studentId" validate:"required,numeric"`
	ClassID   string `form:"classId" validate:"required,numeric"`
	Date      string `form:"date" validate:"required,datetime=2006-01-02"`
	Status    string `form:"status" validate:"omitempty,oneof=present absent late"`
	TimeIn    string `form:"timeIn"`
	TimeOut   string `form:"timeOut"`
	Remarks   string `form:"remarks"`
}

// NewMarkDraft returns blank defaults seeded with date.
func NewMarkDraft(date string) MarkDraft {
	return MarkDraft{
		Date:   date,
		Status: string(StatusPresent),
	}
}

type BulkEntry struct {
	Status  Status
	Remarks string
}

// StatusOrDefault reads an untouched status as present.
func (e BulkEntry) StatusOrDefault() Status {
	if e.Status == "" {
		return StatusPresent
	}
	return e.Status
}

// BulkDraft maps student id to the pending decision for that row.
type BulkDraft map[int]BulkEntry

// Session is the standard school-day window stamped on non-absent bulk rows.
type Session struct {
	TimeIn  string
	TimeOut string
}

var DefaultSession = Session{
	TimeIn:  "08:00:00",
	TimeOut: "15:00:00",
}
