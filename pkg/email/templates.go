package email

import (
	"fmt"
	"html"
	"time"
)

// AppointmentEmailData is what the booking emails render.
type AppointmentEmailData struct {
	AppName     string
	PatientName string
	Email       string
	Phone       string
	Doctor      string
	ScheduledAt time.Time
	Notes       string
	Location    *time.Location
}

func (d AppointmentEmailData) appName() string {
	if d.AppName == "" {
		return "Medical Booking"
	}
	return d.AppName
}

func (d AppointmentEmailData) when() string {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return d.ScheduledAt.In(loc).Format("Monday, 2 January 2006 at 15:04 MST")
}

func (d AppointmentEmailData) notes() string {
	if d.Notes == "" {
		return "-"
	}
	return d.Notes
}

const htmlShell = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
%s
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">%s</p>
</body>
</html>`

// BuildClinicNotificationEmail tells the clinic inbox about a new booking request.
func BuildClinicNotificationEmail(to string, data AppointmentEmailData) Message {
	appName := data.appName()
	subject := fmt.Sprintf("New appointment request: %s with %s", data.PatientName, data.Doctor)

	textBody := fmt.Sprintf(`New appointment request

Patient: %s
Email:   %s
Phone:   %s
Doctor:  %s
When:    %s
Notes:   %s

%s`,
		data.PatientName, data.Email, data.Phone, data.Doctor, data.when(), data.notes(), appName)

	content := fmt.Sprintf(`    <h2 style="color: #2563eb;">New appointment request</h2>
    <table style="border-collapse: collapse;">
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Patient</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Email</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Phone</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Doctor</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>When</strong></td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0;"><strong>Notes</strong></td><td>%s</td></tr>
    </table>`,
		html.EscapeString(data.PatientName), html.EscapeString(data.Email), html.EscapeString(data.Phone),
		html.EscapeString(data.Doctor), html.EscapeString(data.when()), html.EscapeString(data.notes()))

	return Message{
		To:       []string{to},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: fmt.Sprintf(htmlShell, content, html.EscapeString(appName)),
		Headers:  map[string]string{"Reply-To": data.Email},
	}
}

// BuildPatientConfirmationEmail acknowledges the request to the patient. The booking
// starts out pending, so the wording does not promise a confirmed slot.
func BuildPatientConfirmationEmail(data AppointmentEmailData) Message {
	appName := data.appName()
	subject := fmt.Sprintf("Your appointment request was received | %s", appName)

	textBody := fmt.Sprintf(`Hi %s,

We received your appointment request with %s on %s.

The clinic will confirm it shortly. If you need to change or cancel it, just reply to this email.

Thanks,
%s`,
		data.PatientName, data.Doctor, data.when(), appName)

	content := fmt.Sprintf(`    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>We received your appointment request with <strong>%s</strong> on <strong>%s</strong>.</p>
    <p>The clinic will confirm it shortly. If you need to change or cancel it, just reply to this email.</p>`,
		html.EscapeString(data.PatientName), html.EscapeString(data.Doctor), html.EscapeString(data.when()))

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: fmt.Sprintf(htmlShell, content, "Thanks,<br>"+html.EscapeString(appName)),
	}
}
