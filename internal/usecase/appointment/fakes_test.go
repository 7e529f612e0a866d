package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

var (
	clinicLoc = time.FixedZone("UZT", 5*60*60)

	// Tuesday.
	today    = schedule.Date{Year: 2026, Month: time.March, Day: 10}
	tomorrow = today.AddDays(1)
	sunday   = schedule.Date{Year: 2026, Month: time.March, Day: 15}
)

func clockAt(d schedule.Date, hhmm string) timezone.Clock {
	return timezone.Fixed(d.At(schedule.MustParseTimeOfDay(hhmm), clinicLoc))
}

func win(start, end, lunchStart, lunchEnd string) schedule.WorkingWindow {
	return schedule.WorkingWindow{
		Start:      schedule.MustParseTimeOfDay(start),
		End:        schedule.MustParseTimeOfDay(end),
		LunchStart: schedule.MustParseTimeOfDay(lunchStart),
		LunchEnd:   schedule.MustParseTimeOfDay(lunchEnd),
	}
}

func clinicHours() domain.WorkingHours {
	return domain.WorkingHours{
		Default: win("09:00", "18:00", "13:00", "14:00"),
		Overrides: map[uint]schedule.WorkingWindow{
			10: win("09:45", "14:00", "00:00", "00:00"),
		},
		Duration:   15,
		ClosedDays: []time.Weekday{time.Sunday},
	}
}

func weekPolicy() BookingPolicy {
	return BookingPolicy{HorizonDays: 7}
}

// ======================================================
// Store
// ======================================================

type fakeStore struct {
	mu sync.Mutex

	doctors    []domain.Doctor
	doctorsErr error

	occupied    map[string][]string
	occupiedErr error

	createErr error
	created   []domain.Appointment
	nextID    int
	findErr   error

	appointments []domain.Appointment
	listErr      error

	cancelled []string
	updates   map[string]domain.Status
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		doctors: []domain.Doctor{
			{ID: 6, Name: "Dr. Seberg", Specialty: "Urology"},
			{ID: 10, Name: "Dr. Imomov", Specialty: "Laboratory"},
		},
		occupied: map[string][]string{},
		updates:  map[string]domain.Status{},
	}
}

func occupiedKey(doctorID uint, date schedule.Date) string {
	return fmt.Sprintf("%d|%s", doctorID, date)
}

func (s *fakeStore) setOccupied(doctorID uint, date schedule.Date, times ...string) {
	s.occupied[occupiedKey(doctorID, date)] = times
}

func (s *fakeStore) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	if s.doctorsErr != nil {
		return nil, s.doctorsErr
	}
	return s.doctors, nil
}

func (s *fakeStore) OccupiedTimes(ctx context.Context, doctorID uint, date schedule.Date) ([]string, error) {
	if s.occupiedErr != nil {
		return nil, s.occupiedErr
	}
	return s.occupied[occupiedKey(doctorID, date)], nil
}

func (s *fakeStore) CreateAppointment(ctx context.Context, ap *domain.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if ap.IdempotencyKey != "" {
		for _, c := range s.created {
			if c.IdempotencyKey == ap.IdempotencyKey {
				*ap = c
				return nil
			}
		}
	}
	s.nextID++
	ap.ID = fmt.Sprintf("%d", 100+s.nextID)
	s.created = append(s.created, *ap)

	key := occupiedKey(ap.DoctorID, ap.Date)
	s.occupied[key] = append(s.occupied[key], string(ap.Time))
	return nil
}

func (s *fakeStore) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, c := range s.created {
		if c.IdempotencyKey == key {
			cp := c
			return &cp, nil
		}
	}
	return nil, domain.ErrAppointmentNotFound
}

func (s *fakeStore) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	for _, ap := range s.appointments {
		if ap.ID == id {
			cp := ap
			return &cp, nil
		}
	}
	return nil, domain.ErrAppointmentNotFound
}

func (s *fakeStore) CancelAppointment(ctx context.Context, id string) error {
	s.cancelled = append(s.cancelled, id)
	return nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	s.updates[id] = status
	return nil
}

func (s *fakeStore) PatientAppointments(ctx context.Context, telegramID int64) ([]domain.Appointment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Appointment
	for _, ap := range s.appointments {
		if ap.TelegramID == telegramID {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (s *fakeStore) ListAppointments(ctx context.Context, filter domain.ListFilter) ([]domain.Appointment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []domain.Appointment{}
	for _, ap := range s.appointments {
		if filter.Keep(ap) {
			out = append(out, ap)
		}
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

var _ domain.Store = (*fakeStore)(nil)

// ======================================================
// Claims / notifier / audit / archive
// ======================================================

type fakeClaims struct {
	held     map[string]bool
	err      error
	released []string
}

func newFakeClaims() *fakeClaims {
	return &fakeClaims{held: map[string]bool{}}
}

func (c *fakeClaims) Claim(ctx context.Context, doctorID uint, date schedule.Date, label schedule.SlotLabel) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	key := fmt.Sprintf("%d|%s|%s", doctorID, date, label)
	if c.held[key] {
		return "", fmt.Errorf("%w: in progress", domain.ErrSlotTaken)
	}
	c.held[key] = true
	return "token-" + key, nil
}

func (c *fakeClaims) Release(ctx context.Context, doctorID uint, date schedule.Date, label schedule.SlotLabel, token string) error {
	key := fmt.Sprintf("%d|%s|%s", doctorID, date, label)
	delete(c.held, key)
	c.released = append(c.released, token)
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type memorySink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *memorySink) Log(ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *memorySink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}

func newAudit() (*audit.Dispatcher, *memorySink) {
	sink := &memorySink{}
	return audit.NewDispatcher(sink, logging.Discard()), sink
}

type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	key := "exports/" + name
	a.keys = append(a.keys, key)
	return key, nil
}

var errStoreDown = errors.New("connection refused")
