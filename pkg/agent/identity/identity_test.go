package identity

import "testing"

func TestFromRoom_BlankFallsBackToDefault(t *testing.T) {
	if got := FromRoom(""); got != Default {
		t.Fatalf("FromRoom(\"\") = %q, want %q", got, Default)
	}
	if got := FromRoom("   "); got != Default {
		t.Fatalf("FromRoom(blank) = %q, want %q", got, Default)
	}
}

func TestFromRoom_TrimsRoomName(t *testing.T) {
	if got := FromRoom("  room-42  "); got != Identity("room-42") {
		t.Fatalf("FromRoom() = %q, want room-42", got)
	}
}

func TestSafeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sarah", "sarah"},
		{"Mary Jane O'Neil", "mary_jane_o_neil"},
		{"ORDER_1731456789", "order_1731456789"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SafeFileName(tc.in); got != tc.want {
			t.Fatalf("SafeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
