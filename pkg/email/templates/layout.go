package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Brand is shared by every email.
type Brand struct {
	AppName string
	AppURL  string
}

// writer accumulates the first write error so components can emit markup
// without checking every call.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) link(href, label string) {
	w.raw(`<a href="`)
	w.text(string(templ.URL(href)))
	w.raw(`" style="color:#2563eb">`)
	w.text(label)
	w.raw(`</a>`)
}

func (w *writer) button(href, label string) {
	w.raw(`<p style="margin:24px 0"><a href="`)
	w.text(string(templ.URL(href)))
	w.raw(`" style="background:#2563eb;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none">`)
	w.text(label)
	w.raw(`</a></p>`)
}

func (w *writer) paragraph(s string) {
	w.raw(`<p>`)
	w.text(s)
	w.raw(`</p>`)
}

// layout wraps body in the common HTML shell.
func layout(brand Brand, title string, body func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
		w.text(title)
		w.raw(`</title></head><body style="font-family:sans-serif;color:#111;max-width:600px;margin:0 auto;padding:24px">`)
		w.raw(`<h1 style="font-size:20px">`)
		w.text(title)
		w.raw(`</h1>`)
		body(w)
		w.raw(`<hr style="border:none;border-top:1px solid #e5e7eb;margin-top:32px"><p style="color:#6b7280;font-size:12px">`)
		w.text("Sent by ")
		w.link(brand.AppURL, brand.AppName)
		w.text(". You can change which emails you receive in your notification settings.")
		w.raw(`</p></body></html>`)
		return w.err
	})
}
