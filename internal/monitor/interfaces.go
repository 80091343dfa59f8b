package monitor

import "context"

// PageChecker reports whether the watched page currently matches.
// A non-nil error always comes with false and is never fatal for the loop.
type PageChecker interface {
	Check(ctx context.Context) (bool, error)
}

// AlertNotifier sends alert number seq (1-based) of a burst.
type AlertNotifier interface {
	Notify(ctx context.Context, seq int) error
}
