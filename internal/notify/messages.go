package notify

import (
	"fmt"
	"html"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

func BookingConfirmed(ap appointment.Appointment) string {
	return fmt.Sprintf(
		"✅ <b>Appointment confirmed</b>\n\n"+
			"👤 %s\n📞 %s\n👨‍⚕️ %s\n📅 %s\n🕐 %s\n\n"+
			"Please arrive 10 minutes early and bring your ID.",
		html.EscapeString(ap.PatientName),
		html.EscapeString(ap.PatientPhone),
		html.EscapeString(ap.DoctorName),
		ap.Date,
		ap.Time,
	)
}

func Reminder(ap appointment.Appointment) string {
	return fmt.Sprintf(
		"🔔 <b>Reminder</b>\n\nYou have an appointment tomorrow.\n\n"+
			"👨‍⚕️ %s\n📅 %s\n🕐 %s\n\n"+
			"If you cannot come, please cancel it in the bot.",
		html.EscapeString(ap.DoctorName),
		ap.Date,
		ap.Time,
	)
}
