// Package view holds the attendance page state: the current filters, the
// fetched snapshot, the mark/bulk dialogs and the fetch → mutate → refetch
// cycle that keeps the snapshot in line with the server.
package view

import (
	"attendance/domain"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrDialogClosed     = errors.New("dialog is not open")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrStaleRecords     = errors.New("records do not belong to the current filters")
)

const (
	fetchRecordsFailed = "Failed to fetch attendance records"
	markFailed         = "Failed to mark attendance"
	bulkFailed         = "Failed to mark bulk attendance"
)

type DialogPhase int

const (
	DialogClosed DialogPhase = iota
	DialogOpen
	DialogSubmitting
)

func (p DialogPhase) String() string {
	switch p {
	case DialogClosed:
		return "closed"
	case DialogOpen:
		return "open"
	case DialogSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("DialogPhase(%d)", int(p))
	}
}

type MarkDialog struct {
	Phase DialogPhase
	Draft domain.MarkDraft
	Error string
}

type BulkDialog struct {
	Phase DialogPhase
	Draft domain.BulkDraft
	Error string
}

// State is a copy of everything the presentation layer renders.
type State struct {
	Date     string
	ClassID  string
	Loading  bool
	Records  []domain.AttendanceRecord
	Summary  *domain.AttendanceSummary
	Students []domain.Student
	Classes  []domain.Class
	Mark     MarkDialog
	Bulk     BulkDialog

	// RecordsStale is set while Records were fetched under other filters,
	// e.g. after a failed fetch for a new date or class.
	RecordsStale bool
}

type Controller struct {
	api      domain.AttendanceGateway
	notifier Notifier
	log      logrus.FieldLogger
	session  domain.Session

	mu    sync.Mutex
	state State

	// seq tags every records/summary fetch; only the latest one may write.
	seq uint64
	// recordsFor is the filter state.Records were fetched under, nil before
	// the first successful fetch.
	recordsFor *domain.AttendanceFilter
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithSession overrides the standard day-session stamped on bulk rows.
func WithSession(s domain.Session) Option {
	return func(c *Controller) {
		c.session = s
	}
}

// WithDate sets the initial date filter. Defaults to today.
func WithDate(date string) Option {
	return func(c *Controller) {
		c.state.Date = date
	}
}

// WithClass sets the initial class filter.
func WithClass(classID string) Option {
	return func(c *Controller) {
		c.state.ClassID = classID
	}
}

func NewController(api domain.AttendanceGateway, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		notifier: NotifierFunc(func(Notice) {}),
		log:      logrus.StandardLogger(),
		session:  domain.DefaultSession,
		state: State{
			Date: time.Now().Format("2006-01-02"),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) filter() domain.AttendanceFilter {
	f := domain.AttendanceFilter{Date: c.state.Date}
	if id, err := parseID("classId", c.state.ClassID); err == nil {
		f.ClassID = id
	}
	return f
}

// checkClassID accepts "" (all classes) or a positive integer id.
func checkClassID(classID string) error {
	if classID == "" {
		return nil
	}
	_, err := parseID("classId", classID)
	return err
}

func (c *Controller) recordsStale() bool {
	return c.recordsFor == nil || *c.recordsFor != c.filter()
}

// Mount loads the class and student lists once, then the records and
// summary for the current filters. Roster failures are only logged.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	classID := c.state.ClassID
	c.mu.Unlock()
	if err := checkClassID(classID); err != nil {
		return err
	}

	students, err := c.api.ListStudents(ctx)
	if err != nil {
		c.log.WithError(err).Error("failed to fetch students")
	} else {
		c.mu.Lock()
		c.state.Students = students
		c.mu.Unlock()
	}

	classes, err := c.api.ListClasses(ctx)
	if err != nil {
		c.log.WithError(err).Error("failed to fetch classes")
	} else {
		c.mu.Lock()
		c.state.Classes = classes
		c.mu.Unlock()
	}

	return c.Refresh(ctx)
}

// SetFilters replaces both filters in one step and refetches records and
// summary. Responses to fetches started under older filters are dropped. A
// class id that is neither empty nor a positive integer is rejected and the
// filters stay as they were.
func (c *Controller) SetFilters(ctx context.Context, date, classID string) error {
	if err := checkClassID(classID); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Date = date
	c.state.ClassID = classID
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh fetches records, then the summary, for the current filters. A
// failed records fetch is reported to the user; a failed summary fetch is only
// logged. Prior data stays in place on failure.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	filter := c.filter()
	c.state.Loading = true
	c.mu.Unlock()

	log := c.log.WithFields(logrus.Fields{"date": filter.Date, "class_id": filter.ClassID})

	records, recordsErr := c.api.ListAttendance(ctx, filter)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		log.Debug("dropping superseded attendance response")
		return nil
	}
	if recordsErr == nil {
		c.state.Records = records
		c.recordsFor = &filter
	}
	c.mu.Unlock()

	if recordsErr != nil {
		log.WithError(recordsErr).Error("failed to fetch attendance records")
		c.notify(NoticeError, fetchRecordsFailed)
	}

	summary, summaryErr := c.api.GetSummary(ctx, filter)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		log.Debug("dropping superseded summary response")
		return nil
	}
	if summaryErr == nil {
		c.state.Summary = summary
	}
	c.state.Loading = false
	c.mu.Unlock()

	if summaryErr != nil {
		log.WithError(summaryErr).Error("failed to fetch attendance summary")
	}

	if recordsErr != nil {
		return recordsErr
	}
	return summaryErr
}

// OpenMarkDialog opens the single-record dialog with a blank draft seeded
// with the selected date.
func (c *Controller) OpenMarkDialog() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Mark.Phase == DialogSubmitting {
		return ErrSubmitInProgress
	}
	c.state.Mark = MarkDialog{
		Phase: DialogOpen,
		Draft: domain.NewMarkDraft(c.state.Date),
	}
	return nil
}

// UpdateMarkDraft applies fn to the open draft.
func (c *Controller) UpdateMarkDraft(fn func(*domain.MarkDraft)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := phaseEditable(c.state.Mark.Phase); err != nil {
		return err
	}
	fn(&c.state.Mark.Draft)
	return nil
}

func (c *Controller) CancelMark() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Mark.Phase == DialogSubmitting {
		return ErrSubmitInProgress
	}
	c.state.Mark = MarkDialog{}
	return nil
}

// SubmitMark builds and sends the single-record draft. On failure the dialog
// stays open with the draft untouched and Error set.
func (c *Controller) SubmitMark(ctx context.Context) error {
	c.mu.Lock()
	if err := phaseEditable(c.state.Mark.Phase); err != nil {
		c.mu.Unlock()
		return err
	}
	payload, err := BuildMarkPayload(c.state.Mark.Draft)
	if err != nil {
		c.state.Mark.Error = err.Error()
		c.mu.Unlock()
		c.notify(NoticeError, err.Error())
		return err
	}
	c.state.Mark.Phase = DialogSubmitting
	c.state.Mark.Error = ""
	c.mu.Unlock()

	log := c.log.WithFields(logrus.Fields{"student_id": payload.StudentID, "date": payload.Date})

	if _, err := c.api.CreateAttendance(ctx, payload); err != nil {
		msg := ErrorMessage(err, markFailed)
		c.mu.Lock()
		c.state.Mark.Phase = DialogOpen
		c.state.Mark.Error = msg
		c.mu.Unlock()

		log.WithError(err).Error("failed to mark attendance")
		c.notify(NoticeError, msg)
		return err
	}

	if err := c.Refresh(ctx); err != nil {
		log.WithError(err).Warn("refresh after marking attendance failed")
	}

	c.mu.Lock()
	c.state.Mark = MarkDialog{}
	c.mu.Unlock()

	c.notify(NoticeSuccess, "Attendance marked successfully")
	return nil
}

// OpenBulkDialog starts a bulk session with an empty draft.
func (c *Controller) OpenBulkDialog() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Bulk.Phase == DialogSubmitting {
		return ErrSubmitInProgress
	}
	c.state.Bulk = BulkDialog{
		Phase: DialogOpen,
		Draft: domain.BulkDraft{},
	}
	return nil
}

func (c *Controller) SetBulkStatus(studentID int, status string) error {
	s, err := domain.ParseStatus(status)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := phaseEditable(c.state.Bulk.Phase); err != nil {
		return err
	}
	entry := c.state.Bulk.Draft[studentID]
	entry.Status = s
	c.state.Bulk.Draft[studentID] = entry
	return nil
}

func (c *Controller) SetBulkRemarks(studentID int, remarks string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := phaseEditable(c.state.Bulk.Phase); err != nil {
		return err
	}
	entry := c.state.Bulk.Draft[studentID]
	entry.Remarks = remarks
	c.state.Bulk.Draft[studentID] = entry
	return nil
}

// MarkAllUnmarked sets status on every roster student that has no record yet
// and returns how many rows it touched.
func (c *Controller) MarkAllUnmarked(status string) (int, error) {
	s, err := domain.ParseStatus(status)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := phaseEditable(c.state.Bulk.Phase); err != nil {
		return 0, err
	}
	if c.recordsStale() {
		return 0, ErrStaleRecords
	}
	roster := RosterForClass(c.state.Students, c.state.Classes, c.state.ClassID)
	unmarked := UnmarkedStudents(roster, c.state.Records)
	for _, student := range unmarked {
		entry := c.state.Bulk.Draft[student.StudentID]
		entry.Status = s
		c.state.Bulk.Draft[student.StudentID] = entry
	}
	return len(unmarked), nil
}

func (c *Controller) CancelBulk() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Bulk.Phase == DialogSubmitting {
		return ErrSubmitInProgress
	}
	c.state.Bulk = BulkDialog{}
	return nil
}

// SubmitBulk builds the bulk payload for the selected class and date and sends
// it. An empty draft fails before any request is made.
func (c *Controller) SubmitBulk(ctx context.Context) error {
	c.mu.Lock()
	if err := phaseEditable(c.state.Bulk.Phase); err != nil {
		c.mu.Unlock()
		return err
	}
	payload, err := BuildBulkPayload(c.state.Bulk.Draft, c.state.ClassID, c.state.Date, c.session)
	if err != nil {
		c.state.Bulk.Error = err.Error()
		c.mu.Unlock()
		c.notify(NoticeError, err.Error())
		return err
	}
	c.state.Bulk.Phase = DialogSubmitting
	c.state.Bulk.Error = ""
	c.mu.Unlock()

	log := c.log.WithFields(logrus.Fields{"rows": len(payload.AttendanceRecords), "class_id": payload.AttendanceRecords[0].ClassID})

	result, err := c.api.CreateAttendanceBulk(ctx, payload)
	if err != nil {
		msg := ErrorMessage(err, bulkFailed)
		c.mu.Lock()
		c.state.Bulk.Phase = DialogOpen
		c.state.Bulk.Error = msg
		c.mu.Unlock()

		log.WithError(err).Error("failed to mark bulk attendance")
		c.notify(NoticeError, msg)
		return err
	}

	if err := c.Refresh(ctx); err != nil {
		log.WithError(err).Warn("refresh after bulk attendance failed")
	}

	c.mu.Lock()
	c.state.Bulk = BulkDialog{}
	c.mu.Unlock()

	created := len(payload.AttendanceRecords)
	if result != nil {
		created = result.Created
	}
	c.notify(NoticeSuccess, fmt.Sprintf("Marked attendance for %d students", created))
	return nil
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Records = append([]domain.AttendanceRecord(nil), c.state.Records...)
	s.Students = append([]domain.Student(nil), c.state.Students...)
	s.Classes = append([]domain.Class(nil), c.state.Classes...)
	s.RecordsStale = c.recordsStale()
	if c.state.Summary != nil {
		summary := *c.state.Summary
		s.Summary = &summary
	}
	if c.state.Bulk.Draft != nil {
		s.Bulk.Draft = make(domain.BulkDraft, len(c.state.Bulk.Draft))
		for id, entry := range c.state.Bulk.Draft {
			s.Bulk.Draft[id] = entry
		}
	}
	return s
}

// Roster is the selected class's roster, computed from the current snapshot.
func (c *Controller) Roster() []domain.Student {
	c.mu.Lock()
	defer c.mu.Unlock()

	return RosterForClass(c.state.Students, c.state.Classes, c.state.ClassID)
}

// Unmarked is the part of Roster with no record for the current filters. It is
// empty while the records on hand belong to other filters.
func (c *Controller) Unmarked() []domain.Student {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recordsStale() {
		return []domain.Student{}
	}
	roster := RosterForClass(c.state.Students, c.state.Classes, c.state.ClassID)
	return UnmarkedStudents(roster, c.state.Records)
}

func (c *Controller) notify(level NoticeLevel, msg string) {
	c.notifier.Notify(Notice{Level: level, Message: msg})
}

func phaseEditable(p DialogPhase) error {
	switch p {
	case DialogOpen:
		return nil
	case DialogSubmitting:
		return ErrSubmitInProgress
	default:
		return ErrDialogClosed
	}
}
