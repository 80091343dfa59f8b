// Package console prints the operator-facing progress lines on stdout.
// Structured diagnostics go through zerolog; this is the human transcript.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// TimestampLayout is used for every timestamp shown to the operator.
const TimestampLayout = "2006-01-02 15:04:05"

const ruleWidth = 60

// Console writes the monitor's transcript. Safe for use from multiple goroutines.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// New returns a Console writing to out (stdout when nil).
func New(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out, now: time.Now}
}

// Discard returns a Console that prints nothing.
func Discard() *Console {
	return New(io.Discard)
}

// WithClock replaces the clock used for timestamps.
func (c *Console) WithClock(now func() time.Time) *Console {
	c.now = now
	return c
}

// Now returns the current time according to the console clock.
func (c *Console) Now() time.Time {
	return c.now()
}

// Timestamp formats the current time.
func (c *Console) Timestamp() string {
	return c.now().Format(TimestampLayout)
}

func (c *Console) println(lines ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range lines {
		_, _ = fmt.Fprintln(c.out, line)
	}
}

// StartBanner announces what is being watched.
func (c *Console) StartBanner(site, event string, interval time.Duration, recipient string) {
	c.println(
		strings.Repeat("=", ruleWidth),
		"CLOUD TICKET MONITOR - "+site,
		"Monitoring for: "+event,
		"Check interval: Every "+humanInterval(interval),
		"Started at: "+c.Timestamp(),
		strings.Repeat("=", ruleWidth),
		"",
		"📧 Alerts will be sent via EMAIL to: "+recipient,
		"",
		"Monitoring started... (Press Ctrl+C to stop)",
		"",
	)
}

// Checking is printed before every fetch.
func (c *Console) Checking(site string) {
	c.println(fmt.Sprintf("[%s] Checking %s...", c.Timestamp(), site))
}

func (c *Console) NoMatch() {
	c.println("    No match found yet...")
}

func (c *Console) CheckFailed(err error) {
	c.println(fmt.Sprintf("    Error checking website: %v", err))
}

// Detected prints the "tickets found" banner.
func (c *Console) Detected(event, site, url string) {
	c.println(
		"",
		strings.Repeat("!", ruleWidth),
		"🎉 TICKETS FOUND! 🎉",
		fmt.Sprintf("%s match is now on %s!", event, site),
		"Visit: "+url,
		strings.Repeat("!", ruleWidth),
		"",
	)
}

// BurstStarted announces the reminder schedule that follows the first email.
func (c *Console) BurstStarted(reminder time.Duration, total int) {
	c.println("", fmt.Sprintf("Sending reminder emails every %s for the next %s...",
		humanInterval(reminder), humanSpan(reminder*time.Duration(total))))
}

func (c *Console) Reminder(n, total int) {
	c.println("", fmt.Sprintf("⚠️  Sending reminder email %d/%d...", n, total))
}

func (c *Console) Sending(n int) {
	c.println(fmt.Sprintf("    Sending email alert #%d...", n))
}

func (c *Console) Sent(n int) {
	c.println(fmt.Sprintf("    ✅ Email alert #%d sent successfully!", n))
}

func (c *Console) SendFailed(err error) {
	c.println(fmt.Sprintf("    ❌ Failed to send email: %v", err))
}

// Completed closes a finished alert burst.
func (c *Console) Completed() {
	c.println(
		"",
		strings.Repeat("=", ruleWidth),
		"Alert sequence completed. Monitoring stopped.",
		"Restart the script if you want to continue monitoring.",
		strings.Repeat("=", ruleWidth),
	)
}

// Interrupted is printed when the operator stops the monitor.
func (c *Console) Interrupted() {
	c.println(
		"",
		"",
		strings.Repeat("=", ruleWidth),
		"Monitoring stopped by user.",
		"Run the script again to resume monitoring.",
		strings.Repeat("=", ruleWidth),
	)
}

// Crashed is printed for any unexpected top-level failure.
func (c *Console) Crashed(err error) {
	c.println(
		"",
		"",
		fmt.Sprintf("❌ Unexpected error: %v", err),
		"Script crashed. Please restart it.",
	)
}

// humanInterval renders whole minutes as "5 minutes", anything else in seconds.
func humanInterval(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return plural(int(d/time.Minute), "minute")
	}
	return plural(int(d/time.Second), "second")
}

func humanSpan(d time.Duration) string {
	if d == time.Hour {
		return "hour"
	}
	if d >= time.Hour && d%time.Hour == 0 {
		return plural(int(d/time.Hour), "hour")
	}
	return humanInterval(d)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
