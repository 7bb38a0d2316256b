package notice

import (
	"testing"
	"time"
)

func TestNoticeExpires(t *testing.T) {
	n := New(30 * time.Millisecond)
	n.Set(true, "Review posted successfully!")

	msg, ok, present := n.Current()
	if !present || !ok || msg != "Review posted successfully!" {
		t.Fatalf("unexpected notice: %q %v %v", msg, ok, present)
	}

	time.Sleep(80 * time.Millisecond)

	if _, _, present := n.Current(); present {
		t.Fatalf("notice must auto-dismiss after the display window")
	}
}

func TestNewerMessageResetsTimer(t *testing.T) {
	n := New(100 * time.Millisecond)
	n.Set(false, "first")

	// Второе сообщение приходит до истечения окна первого: таймер первого
	// не должен стереть второе.
	time.Sleep(60 * time.Millisecond)
	n.Set(true, "second")

	time.Sleep(60 * time.Millisecond)
	msg, ok, present := n.Current()
	if !present || !ok || msg != "second" {
		t.Fatalf("newer message dismissed early: %q %v %v", msg, ok, present)
	}

	time.Sleep(120 * time.Millisecond)
	if _, _, present := n.Current(); present {
		t.Fatalf("second message must expire after its own full window")
	}
}

func TestClear(t *testing.T) {
	n := New(time.Second)
	n.Set(true, "message")
	n.Clear()

	if _, _, present := n.Current(); present {
		t.Fatalf("expected no notice after Clear")
	}
}
