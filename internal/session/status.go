package session

// Status is the session lifecycle state. Exactly one session is active
// process-wide, owned by the Manager; no other component mutates it.
type Status string

const (
	StatusUninitialized   Status = "uninitialized"
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

type event string

const (
	eventRestoreBegin   event = "restore_begin"
	eventRestoreHit     event = "restore_hit"
	eventRestoreMiss    event = "restore_miss"
	eventLoginSucceeded event = "login_succeeded"
	eventLoggedOut      event = "logged_out"
)

// next is the pure lifecycle transition function. Unknown combinations
// leave the status unchanged.
func next(current Status, ev event) Status {
	switch ev {
	case eventRestoreBegin:
		if current == StatusUninitialized {
			return StatusLoading
		}
		return current
	case eventRestoreHit, eventLoginSucceeded:
		return StatusAuthenticated
	case eventRestoreMiss, eventLoggedOut:
		return StatusUnauthenticated
	}
	return current
}
