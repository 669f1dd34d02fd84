package event

import (
	"slices"
	"testing"
)

func TestCollect(t *testing.T) {
	tests := []struct {
		name     string
		events   []Event
		closeReq bool
		reached  bool
		want     []Event
	}{
		{name: "woken early with nothing", want: nil},
		{name: "deadline only", reached: true, want: []Event{Tick}},
		{name: "input before deadline", events: []Event{Other, Other}, want: []Event{Other, Other}},
		{name: "close callback", events: []Event{Other, Close}, closeReq: true, want: []Event{Other, Close}},
		{name: "close flag without callback", closeReq: true, reached: true, want: []Event{Close, Tick}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collect(tt.events, tt.closeReq, tt.reached)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventString(t *testing.T) {
	if Close.String() != "close" || Tick.String() != "tick" || Other.String() != "other" {
		t.Fatal("unexpected event names")
	}
	if Event(9).String() != "Event(9)" {
		t.Fatalf("got %q", Event(9).String())
	}
}
