package notifier

import (
	"bytes"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"text/template"
	"time"

	"github.com/aleister1102/ticketwatch/internal/common"
)

const ruleWidth = 60

// AlertContent is everything the alert text is built from.
type AlertContent struct {
	EventName string
	SiteName  string
	URL       string
	Sequence  int
	Time      time.Time
}

var bodyTemplate = template.Must(template.New("alert").
	Funcs(template.FuncMap{"rule": func() string { return strings.Repeat("=", ruleWidth) }}).
	Parse(`{{rule}}
TICKETS ARE NOW AVAILABLE!
{{rule}}

Match: {{.EventName}}
Website: {{.SiteName}}
Direct Link: {{.URL}}

🚨 GO TO THE WEBSITE NOW TO PURCHASE YOUR TICKETS! 🚨

This is automated alert #{{.Sequence}} from your Cloud Ticket Monitor.
Time: {{.Time.Format "2006-01-02 15:04:05"}}

{{rule}}
`))

// Subject returns the subject line for alert seq.
func Subject(eventName string, seq int) string {
	event := shout(eventName)
	if seq == 1 {
		return fmt.Sprintf("🎉 %s TICKETS AVAILABLE! 🎉", event)
	}
	return fmt.Sprintf("⚠️ REMINDER #%d: %s TICKETS STILL AVAILABLE!", seq, event)
}

// shout uppercases the event name but keeps the "vs" separator lowercase.
func shout(eventName string) string {
	words := strings.Fields(eventName)
	for i, w := range words {
		if strings.EqualFold(w, "vs") || strings.EqualFold(w, "vs.") {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = strings.ToUpper(w)
	}
	return strings.Join(words, " ")
}

// RenderBody renders the plain-text alert body.
func RenderBody(content AlertContent) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, content); err != nil {
		return "", common.WrapError(err, "failed to render alert body")
	}
	return buf.String(), nil
}

// Message is one RFC 5322 email.
type Message struct {
	From      string
	To        string
	Subject   string
	Body      string
	Date      time.Time
	MessageID string
}

// NewAlertMessage builds the message for content, addressed from -> to.
func NewAlertMessage(from, to string, content AlertContent) (*Message, error) {
	if _, err := mail.ParseAddress(from); err != nil {
		return nil, common.WrapErrorf(err, "invalid sender address %q", from)
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return nil, common.WrapErrorf(err, "invalid recipient address %q", to)
	}
	body, err := RenderBody(content)
	if err != nil {
		return nil, err
	}
	return &Message{
		From:      from,
		To:        to,
		Subject:   Subject(content.EventName, content.Sequence),
		Body:      body,
		Date:      content.Time,
		MessageID: messageID(from, content),
	}, nil
}

func messageID(from string, content AlertContent) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<ticketwatch.%d.%d@%s>", content.Time.UnixNano(), content.Sequence, domain)
}

// Bytes renders headers and the quoted-printable body with CRLF line endings.
func (m *Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	headers := [][2]string{
		{"From", (&mail.Address{Address: m.From}).String()},
		{"To", (&mail.Address{Address: m.To}).String()},
		{"Subject", mime.QEncoding.Encode("utf-8", m.Subject)},
		{"Date", m.Date.Format(time.RFC1123Z)},
		{"Message-ID", m.MessageID},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/plain; charset=UTF-8"},
		{"Content-Transfer-Encoding", "quoted-printable"},
	}
	for _, h := range headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", h[0], h[1])
	}
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(m.Body)); err != nil {
		return nil, common.WrapError(err, "failed to encode body")
	}
	if err := qp.Close(); err != nil {
		return nil, common.WrapError(err, "failed to encode body")
	}
	return buf.Bytes(), nil
}
