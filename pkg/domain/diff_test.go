package domain

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	base := func() *FormSession {
		s := NewFormSession("sess-1")
		s.Personal[FieldFirstName] = "Eleanore"
		return s
	}

	t.Run("Initial Load (Old is Nil)", func(t *testing.T) {
		d := Diff(nil, base())
		if d == nil {
			t.Fatal("Expected diff for initial load")
		}
		if d.CurrentStep == nil || *d.CurrentStep != StepPersonal {
			t.Errorf("Expected current step personal, got %v", d.CurrentStep)
		}
		if len(d.ChangedFields) != 1 || d.ChangedFields[0] != FieldFirstName {
			t.Errorf("Expected firstName changed, got %v", d.ChangedFields)
		}
		if len(d.Appended) != 1 || d.Appended[0] != StepPersonal {
			t.Errorf("Expected history [personal], got %v", d.Appended)
		}
	})

	t.Run("No Changes", func(t *testing.T) {
		if d := Diff(base(), base()); d != nil {
			t.Errorf("Expected nil diff, got %+v", d)
		}
	})

	t.Run("Step Change Appends History", func(t *testing.T) {
		old := base()
		next := old.Snapshot()
		next.CurrentStep = StepCard
		next.History = append(next.History, StepCard)

		d := Diff(old, next)
		if d == nil || d.CurrentStep == nil || *d.CurrentStep != StepCard {
			t.Fatalf("Expected step change to card, got %+v", d)
		}
		if len(d.Appended) != 1 || d.Appended[0] != StepCard {
			t.Errorf("Expected appended [card], got %v", d.Appended)
		}
	})

	t.Run("Marker Set And Cleared", func(t *testing.T) {
		old := base()
		old.Markers[FieldEmail] = Marker{State: MarkerInvalid, Message: "required"}
		next := old.Snapshot()
		delete(next.Markers, FieldEmail)
		next.Markers[FieldCVV] = Marker{State: MarkerValid}

		d := Diff(old, next)
		if d == nil {
			t.Fatal("Expected diff")
		}
		if m, ok := d.Markers[FieldEmail]; !ok || m != nil {
			t.Errorf("Expected email marker cleared (nil), got %v", m)
		}
		if m := d.Markers[FieldCVV]; m == nil || m.State != MarkerValid {
			t.Errorf("Expected cvv marker valid, got %v", m)
		}
	})

	t.Run("Values Are Not Leaked", func(t *testing.T) {
		old := base()
		next := old.Snapshot()
		next.Payment[FieldCardNumber] = "4111 1111 1111 1111"
		next.Payment[FieldCVV] = "123"

		d := Diff(old, next)
		raw, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if strings.Contains(string(raw), "4111") || strings.Contains(string(raw), "123\"") {
			t.Errorf("Diff leaked card data: %s", raw)
		}
		sort.Strings(d.ChangedFields)
		if strings.Join(d.ChangedFields, ",") != "cardNumber,cvv" {
			t.Errorf("Expected cardNumber,cvv changed, got %v", d.ChangedFields)
		}
	})
}
