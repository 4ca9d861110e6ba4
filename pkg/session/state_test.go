package session

import "testing"

func TestTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   State
		ev     event
		want   State
		wantOK bool
	}{
		{name: "connect from disconnected", from: Disconnected, ev: eventConnect, want: Connecting, wantOK: true},
		{name: "connect while connecting is a no-op", from: Connecting, ev: eventConnect, want: Connecting, wantOK: false},
		{name: "connect while connected is a no-op", from: Connected, ev: eventConnect, want: Connected, wantOK: false},
		{name: "connect while failed is a no-op", from: Failed, ev: eventConnect, want: Failed, wantOK: false},
		{name: "handshake success", from: Connecting, ev: eventOpened, want: Connected, wantOK: true},
		{name: "handshake failure", from: Connecting, ev: eventFailed, want: Failed, wantOK: true},
		{name: "open after failure ignored", from: Failed, ev: eventOpened, want: Failed, wantOK: false},
		{name: "transport closed", from: Connected, ev: eventClosed, want: Disconnected, wantOK: true},
		{name: "closed while disconnected ignored", from: Disconnected, ev: eventClosed, want: Disconnected, wantOK: false},
		{name: "disconnect from connected", from: Connected, ev: eventDisconnect, want: Disconnected, wantOK: true},
		{name: "disconnect from connecting", from: Connecting, ev: eventDisconnect, want: Disconnected, wantOK: true},
		{name: "disconnect from failed", from: Failed, ev: eventDisconnect, want: Disconnected, wantOK: true},
		{name: "disconnect is idempotent", from: Disconnected, ev: eventDisconnect, want: Disconnected, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := transition(tt.from, tt.ev)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("transition(%v, %v) = (%v, %v), want (%v, %v)",
					tt.from, tt.ev, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	for st, want := range map[State]string{
		Disconnected: "disconnected",
		Connecting:   "connecting",
		Connected:    "connected",
		Failed:       "failed",
		State(99):    "unknown",
	} {
		if got := st.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", st, got, want)
		}
	}
}
