package ws

import (
	"reflect"
	"testing"
)

func TestEventsAfter(t *testing.T) {
	buffer := []Event{
		{ID: 3, Type: "bid_received"},
		{ID: 4, Type: "message_received"},
		{ID: 5, Type: "payment_released"},
	}

	cases := []struct {
		name   string
		fromID int64
		want   []int64
	}{
		{"zero returns everything", 0, []int64{3, 4, 5}},
		{"mid-buffer cutoff", 3, []int64{4, 5}},
		{"caught up", 5, nil},
		{"ahead of buffer", 9, nil},
		{"trimmed prefix still filters by id", 2, []int64{3, 4, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := make([]Event, len(buffer))
			copy(in, buffer)
			got := eventsAfter(in, tc.fromID)
			var ids []int64
			for _, ev := range got {
				ids = append(ids, ev.ID)
			}
			if !reflect.DeepEqual(ids, tc.want) {
				t.Errorf("eventsAfter(%d) ids = %v, want %v", tc.fromID, ids, tc.want)
			}
		})
	}
}

func TestParseLastEventID(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"0", 0},
		{"42", 42},
		{"not-a-number", 0},
		{"-7", -7},
	}
	for _, tc := range cases {
		if got := ParseLastEventID(tc.in); got != tc.want {
			t.Errorf("ParseLastEventID(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
