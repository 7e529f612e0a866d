package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
)

func TestTelegram_Notify(t *testing.T) {
	var mu sync.Mutex
	var sent []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Clinic","username":"clinic_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_ = r.ParseForm()
			mu.Lock()
			sent = append(sent, r.FormValue("chat_id")+":"+r.FormValue("parse_mode"))
			mu.Unlock()
			w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":555,"type":"private"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	tg, err := NewTelegramWithEndpoint("token", server.URL+"/bot%s/%s", server.Client(), logging.Discard())
	require.NoError(t, err)

	require.NoError(t, tg.Notify(context.Background(), 555, "hello"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"555:HTML"}, sent)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{Log: logging.Discard()}.Notify(context.Background(), 1, "x"))
}

func TestMessagesEscapeHTML(t *testing.T) {
	ap := appointment.Appointment{
		PatientName: "<b>Eve</b>",
		DoctorName:  "Dr. A&B",
		Date:        schedule.Date{Year: 2026, Month: time.March, Day: 10},
		Time:        "10:00",
	}

	confirmed := BookingConfirmed(ap)
	assert.Contains(t, confirmed, "&lt;b&gt;Eve&lt;/b&gt;")
	assert.Contains(t, confirmed, "2026-03-10")

	reminder := Reminder(ap)
	assert.Contains(t, reminder, "Dr. A&amp;B")
	assert.Contains(t, reminder, "10:00")
}
