package events

import "testing"

type testEvent string

func (e testEvent) EventType() string { return string(e) }

func TestFeedFanOut(t *testing.T) {
	feed := NewFeed()
	first := feed.Subscribe(4)
	second := feed.Subscribe(4)

	feed.Emit(testEvent("token.minted"))

	for name, ch := range map[string]<-chan Event{"first": first, "second": second} {
		select {
		case evt := <-ch:
			if evt.EventType() != "token.minted" {
				t.Fatalf("%s subscriber got %q", name, evt.EventType())
			}
		default:
			t.Fatalf("%s subscriber missed the event", name)
		}
	}
}

func TestFeedDropsWhenFull(t *testing.T) {
	feed := NewFeed()
	ch := feed.Subscribe(1)

	feed.Emit(testEvent("first"))
	feed.Emit(testEvent("second"))

	if evt := <-ch; evt.EventType() != "first" {
		t.Fatalf("got %q, want first", evt.EventType())
	}
	select {
	case evt := <-ch:
		t.Fatalf("overflow event delivered: %q", evt.EventType())
	default:
	}
}

func TestFeedNilSafety(t *testing.T) {
	feed := NewFeed()
	feed.Subscribe(1)
	feed.Emit(nil)

	var none *Feed
	none.Emit(testEvent("ignored"))
}
