package session

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from Status
		ev   event
		want Status
	}{
		{StatusUninitialized, eventRestoreBegin, StatusLoading},
		{StatusLoading, eventRestoreHit, StatusAuthenticated},
		{StatusLoading, eventRestoreMiss, StatusUnauthenticated},
		{StatusUnauthenticated, eventLoginSucceeded, StatusAuthenticated},
		{StatusAuthenticated, eventLoggedOut, StatusUnauthenticated},
		// restore_begin only fires from the initial state
		{StatusAuthenticated, eventRestoreBegin, StatusAuthenticated},
		{StatusUnauthenticated, eventRestoreBegin, StatusUnauthenticated},
		// unknown combinations are stable
		{StatusAuthenticated, event("bogus"), StatusAuthenticated},
	}

	for _, tc := range cases {
		if got := next(tc.from, tc.ev); got != tc.want {
			t.Errorf("next(%s, %s) = %s, want %s", tc.from, tc.ev, got, tc.want)
		}
	}
}
