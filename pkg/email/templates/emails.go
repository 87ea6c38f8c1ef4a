package templates

import (
	"fmt"

	"github.com/a-h/templ"
)

type WelcomeData struct {
	Brand
	Name string
}

func Welcome(d WelcomeData) templ.Component {
	return layout(d.Brand, "Welcome to "+d.AppName, func(w *writer) {
		w.paragraph(fmt.Sprintf("Hi %s,", d.Name))
		w.paragraph("Your account is ready. Add your first task and we'll remind you before it's due.")
		w.button(d.AppURL, "Open "+d.AppName)
	})
}

type PasswordResetData struct {
	Brand
	Name     string
	ResetURL string
}

func PasswordReset(d PasswordResetData) templ.Component {
	return layout(d.Brand, "Reset your password", func(w *writer) {
		w.paragraph(fmt.Sprintf("Hi %s,", d.Name))
		w.paragraph("We received a request to reset your password. The link below expires in one hour.")
		w.button(d.ResetURL, "Choose a new password")
		w.paragraph("If you didn't ask for this, you can ignore this email.")
	})
}

type TaskReminderData struct {
	Brand
	Name      string
	TaskTitle string
	DueDate   string
	TaskURL   string
}

func TaskReminder(d TaskReminderData) templ.Component {
	return layout(d.Brand, "Task due soon", func(w *writer) {
		w.paragraph(fmt.Sprintf("Hi %s,", d.Name))
		w.raw(`<p><strong>`)
		w.text(d.TaskTitle)
		w.raw(`</strong>`)
		if d.DueDate != "" {
			w.text(" is due " + d.DueDate + ".")
		} else {
			w.text(" is due soon.")
		}
		w.raw(`</p>`)
		w.button(d.TaskURL, "View task")
	})
}

type DigestItem struct {
	Title   string
	Message string
	At      string
}

type DigestData struct {
	Brand
	Name      string
	Items     []DigestItem
	Remaining int
}

func Digest(d DigestData) templ.Component {
	return layout(d.Brand, "Your notification digest", func(w *writer) {
		w.paragraph(fmt.Sprintf("Hi %s, here is what happened while we held off on emails:", d.Name))
		w.raw(`<ul style="padding-left:18px">`)
		for _, item := range d.Items {
			w.raw(`<li style="margin-bottom:8px"><strong>`)
			w.text(item.Title)
			w.raw(`</strong>`)
			if item.Message != "" {
				w.raw(`<br>`)
				w.text(item.Message)
			}
			if item.At != "" {
				w.raw(`<br><span style="color:#6b7280;font-size:12px">`)
				w.text(item.At)
				w.raw(`</span>`)
			}
			w.raw(`</li>`)
		}
		w.raw(`</ul>`)
		if d.Remaining > 0 {
			w.paragraph(fmt.Sprintf("…and %d more.", d.Remaining))
		}
		w.button(d.AppURL, "See all notifications")
	})
}

type NotificationData struct {
	Brand
	Name    string
	Title   string
	Message string
	Details []string
}

func Notification(d NotificationData) templ.Component {
	return layout(d.Brand, d.Title, func(w *writer) {
		w.paragraph(fmt.Sprintf("Hi %s,", d.Name))
		w.paragraph(d.Message)
		if len(d.Details) > 0 {
			w.raw(`<ul>`)
			for _, line := range d.Details {
				w.raw(`<li>`)
				w.text(line)
				w.raw(`</li>`)
			}
			w.raw(`</ul>`)
		}
		w.button(d.AppURL, "Open "+d.AppName)
	})
}
