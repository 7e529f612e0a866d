package bookingstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

const (
	defaultUserAgent = "clinic-scheduler/1.0"
	defaultListLimit = 50
	lookupListLimit  = 1000
)

// LatencyObserver receives the duration of every store call.
type LatencyObserver interface {
	ObserveStoreLatency(operation string, seconds float64)
}

// Config controls how the remote store client behaves.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
	Metrics    LatencyObserver
}

// Client talks to the remote scheduling service that owns bookings.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	log        *logrus.Logger
	metrics    LatencyObserver
}

func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("bookingstore: base URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        log,
		metrics:    cfg.Metrics,
	}, nil
}

// ===============================
// Doctors
// ===============================

func (c *Client) ListDoctors(ctx context.Context) ([]appointment.Doctor, error) {
	data, err := c.invoke(ctx, "list_doctors", http.MethodGet, "/doctors", nil, nil, "")
	if err != nil {
		return nil, err
	}

	var payload []doctorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode doctors: %v", appointment.ErrUpstreamUnavailable, err)
	}

	doctors := make([]appointment.Doctor, 0, len(payload))
	for _, d := range payload {
		doctors = append(doctors, appointment.Doctor{
			ID:          d.ID.Uint(),
			Name:        d.Name,
			Specialty:   d.Specialty,
			Description: d.Description,
		})
	}
	return doctors, nil
}

// ===============================
// Availability
// ===============================

func (c *Client) OccupiedTimes(ctx context.Context, doctorID uint, date schedule.Date) ([]string, error) {
	q := url.Values{}
	q.Set("doctor_id", strconv.FormatUint(uint64(doctorID), 10))
	q.Set("date", date.String())

	data, err := c.invoke(ctx, "occupied_times", http.MethodGet, "/get-appointments", q, nil, "")
	if err != nil {
		return nil, err
	}

	var payload []occupiedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode occupied times: %v", appointment.ErrUpstreamUnavailable, err)
	}

	times := make([]string, 0, len(payload))
	for _, p := range payload {
		if appointment.Status(p.Status) == appointment.StatusCancelled {
			continue
		}
		times = append(times, p.Time)
	}
	return times, nil
}

// ===============================
// Appointment (create / state)
// ===============================

// CreateAppointment sends an idempotency key so a retried request cannot
// create a second booking.
func (c *Client) CreateAppointment(ctx context.Context, ap *appointment.Appointment) error {
	if ap.IdempotencyKey == "" {
		ap.IdempotencyKey = uuid.NewString()
	}

	body, err := json.Marshal(createRequest{
		DoctorID:        ap.DoctorID,
		AppointmentDate: ap.Date.String(),
		AppointmentTime: string(ap.Time),
		UserName:        ap.PatientName,
		UserPhone:       ap.PatientPhone,
		TelegramID:      ap.TelegramID,
		Source:          ap.Source,
	})
	if err != nil {
		return fmt.Errorf("bookingstore: marshal create body: %w", err)
	}

	headers := map[string]string{"Idempotency-Key": ap.IdempotencyKey}
	data, err := c.invokeWithHeaders(ctx, "create", http.MethodPost, "/appointments", nil, body, "application/json", headers)
	if err != nil {
		return err
	}

	var resp createResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("%w: decode create response: %v", appointment.ErrUpstreamUnavailable, err)
	}
	if !resp.Success {
		if isSlotTakenMessage(resp.Message) {
			return fmt.Errorf("%w: %s", appointment.ErrSlotTaken, resp.Message)
		}
		return fmt.Errorf("bookingstore: create rejected: %s", resp.Message)
	}

	ap.ID = string(resp.ID)
	if ap.Status == "" {
		ap.Status = appointment.StatusConfirmed
	}
	return nil
}

// FindByIdempotencyKey always misses: the remote service has no lookup by
// key and deduplicates on the Idempotency-Key header of the create call.
func (c *Client) FindByIdempotencyKey(ctx context.Context, key string) (*appointment.Appointment, error) {
	return nil, appointment.ErrAppointmentNotFound
}

func (c *Client) GetAppointment(ctx context.Context, id string) (*appointment.Appointment, error) {
	all, err := c.allAppointments(ctx, lookupListLimit)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, appointment.ErrAppointmentNotFound
}

func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("appointment_id", id)
	_, err := c.invoke(ctx, "cancel", http.MethodPost, "/cancel-appointment", q, nil, "")
	return err
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status appointment.Status) error {
	form := url.Values{}
	form.Set("appointment_id", id)
	form.Set("status", strconv.Itoa(codeFromStatus(status)))

	_, err := c.invoke(ctx, "update_status", http.MethodPost, "/update-status", nil,
		[]byte(form.Encode()), "application/x-www-form-urlencoded")
	return err
}

// ===============================
// Listing
// ===============================

func (c *Client) PatientAppointments(ctx context.Context, telegramID int64) ([]appointment.Appointment, error) {
	q := url.Values{}
	q.Set("telegram_id", strconv.FormatInt(telegramID, 10))

	data, err := c.invoke(ctx, "patient_appointments", http.MethodGet, "/my-appointments", q, nil, "")
	if err != nil {
		return nil, err
	}

	var payload []patientAppointmentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode patient appointments: %v", appointment.ErrUpstreamUnavailable, err)
	}

	out := make([]appointment.Appointment, 0, len(payload))
	for _, p := range payload {
		ap := appointment.Appointment{
			ID:         string(p.ID),
			DoctorID:   p.DoctorID.Uint(),
			DoctorName: p.Doctor,
			Time:       c.label(p.Time),
			TelegramID: telegramID,
			Status:     appointment.Status(p.Status),
		}
		ap.Date, _ = schedule.ParseDate(p.Date)
		out = append(out, ap)
	}
	return out, nil
}

func (c *Client) ListAppointments(ctx context.Context, filter appointment.ListFilter) ([]appointment.Appointment, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	all, err := c.allAppointments(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]appointment.Appointment, 0, len(all))
	for _, ap := range all {
		if filter.Keep(ap) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (c *Client) allAppointments(ctx context.Context, limit int) ([]appointment.Appointment, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	data, err := c.invoke(ctx, "list_appointments", http.MethodGet, "/all-appointments", q, nil, "")
	if err != nil {
		return nil, err
	}

	var payload []adminAppointmentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode appointments: %v", appointment.ErrUpstreamUnavailable, err)
	}

	out := make([]appointment.Appointment, 0, len(payload))
	for _, p := range payload {
		ap := appointment.Appointment{
			ID:           string(p.ID),
			DoctorID:     p.DoctorID.Uint(),
			DoctorName:   p.DoctorName,
			Time:         c.label(p.AppointmentTime),
			PatientName:  p.UserName,
			PatientPhone: p.UserPhone,
			TelegramID:   p.TelegramID.Int64(),
			Status:       appointment.Status(p.Status),
			Source:       p.Source,
		}
		ap.Date, _ = schedule.ParseDate(p.AppointmentDate)
		out = append(out, ap)
	}
	return out, nil
}

// label normalizes a listed time, keeping the raw value when it cannot.
func (c *Client) label(raw string) schedule.SlotLabel {
	l, err := schedule.NormalizeLabel(raw)
	if err != nil {
		c.log.WithField("raw", raw).Warn("bookingstore: unparseable appointment time")
		return schedule.SlotLabel(raw)
	}
	return l
}

// ===============================
// Transport
// ===============================

func (c *Client) invoke(ctx context.Context, op, method, path string, query url.Values, body []byte, contentType string) ([]byte, error) {
	return c.invokeWithHeaders(ctx, op, method, path, query, body, contentType, nil)
}

func (c *Client) invokeWithHeaders(
	ctx context.Context,
	op, method, path string,
	query url.Values,
	body []byte,
	contentType string,
	headers map[string]string,
) ([]byte, error) {
	started := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveStoreLatency(op, time.Since(started).Seconds())
		}
	}()

	fullURL := c.buildURL(path, query)
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("bookingstore: build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", defaultUserAgent)
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}
		if body != nil {
			ct := contentType
			if ct == "" {
				ct = "application/json"
			}
			req.Header.Set("Content-Type", ct)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", appointment.ErrUpstreamUnavailable, ctx.Err())
			}
			lastErr = fmt.Errorf("%w: %v", appointment.ErrUpstreamUnavailable, err)
			if attempt == c.maxRetries {
				break
			}
			c.logRetry(op, attempt, 0, err)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return nil, fmt.Errorf("%w: %v", appointment.ErrUpstreamUnavailable, sleepErr)
			}
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("%w: read response: %v", appointment.ErrUpstreamUnavailable, readErr)
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		apiErr := decodeAPIError(resp.StatusCode, data)
		if resp.StatusCode >= 500 && attempt < c.maxRetries {
			lastErr = apiErr
			c.logRetry(op, attempt, resp.StatusCode, apiErr)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return nil, fmt.Errorf("%w: %v", appointment.ErrUpstreamUnavailable, sleepErr)
			}
			continue
		}
		return nil, apiErr
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: request failed without response", appointment.ErrUpstreamUnavailable)
}

func (c *Client) buildURL(path string, query url.Values) string {
	full := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		full = full + "?" + query.Encode()
	}
	return full
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff * time.Duration(1<<attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) logRetry(op string, attempt, status int, err error) {
	c.log.WithFields(logrus.Fields{
		"operation": op,
		"attempt":   attempt + 1,
		"status":    status,
	}).WithError(err).Warn("bookingstore retry")
}

// APIError is a non-2xx answer from the remote service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("bookingstore: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("bookingstore: %d: %s", e.Status, e.Message)
}

func decodeAPIError(status int, data []byte) error {
	var payload apiErrorPayload
	_ = json.Unmarshal(data, &payload)
	apiErr := &APIError{Status: status, Code: payload.Code, Message: payload.Message}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	switch {
	case status == http.StatusConflict || payload.Code == "slot_taken":
		return fmt.Errorf("%w: %v", appointment.ErrSlotTaken, apiErr)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %v", appointment.ErrAppointmentNotFound, apiErr)
	case status >= 500:
		return fmt.Errorf("%w: %v", appointment.ErrUpstreamUnavailable, apiErr)
	}
	return apiErr
}

func isSlotTakenMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "slot_taken") || strings.Contains(m, "already booked")
}

var _ appointment.Store = (*Client)(nil)
