package params

import "testing"

func TestSpinRejectsOutOfRangeAndNotifies(t *testing.T) {
	r := New()
	notified := 0
	p := r.NewSpin("Margin", 10, 0, 100)
	p.AddListener(func() { notified++ })

	if err := p.SetInt(50); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if p.Value != 50 || notified != 1 {
		t.Fatalf("expected Value=50 notified=1, got Value=%d notified=%d", p.Value, notified)
	}

	if err := p.SetInt(101); err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if p.Value != 50 {
		t.Fatalf("out-of-range Set must not change Value, got %d", p.Value)
	}
}

func TestTableBacksArrayThroughListener(t *testing.T) {
	r := New()
	backing := make([]int, 3)
	params := r.NewTable("Slot", backing, 7, 0, 20)

	if backing[0] != 7 || backing[1] != 7 || backing[2] != 7 {
		t.Fatalf("expected default fill, got %v", backing)
	}

	if err := params[1].SetInt(12); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if backing[1] != 12 {
		t.Fatalf("expected backing[1]=12, got %d", backing[1])
	}
	if backing[0] != 7 || backing[2] != 7 {
		t.Fatalf("unrelated slots must not change, got %v", backing)
	}
}

func TestSetFromUCICaseInsensitiveLookup(t *testing.T) {
	r := New()
	r.NewCheck("PonderEnabled", false)

	if err := r.SetFromUCI("ponderenabled", "true"); err != nil {
		t.Fatalf("SetFromUCI: %v", err)
	}
	if !r.Get("PonderEnabled").BoolValue {
		t.Fatalf("expected PonderEnabled to be true")
	}
}

func TestButtonPressInvokesListenersWithoutValue(t *testing.T) {
	r := New()
	pressed := false
	b := r.NewButton("ClearHash")
	b.AddListener(func() { pressed = true })

	if err := r.SetFromUCI("ClearHash", ""); err != nil {
		t.Fatalf("SetFromUCI: %v", err)
	}
	if !pressed {
		t.Fatalf("expected button listener to run")
	}
}

func TestUnknownOptionReturnsError(t *testing.T) {
	r := New()
	if err := r.SetFromUCI("DoesNotExist", "1"); err == nil {
		t.Fatalf("expected error for unknown option")
	}
}
