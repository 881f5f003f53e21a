package domain

import "testing"

func TestNewFormSession(t *testing.T) {
	s := NewFormSession("abc")
	if s.CurrentStep != StepPersonal {
		t.Errorf("Expected initial step personal, got %v", s.CurrentStep)
	}
	if len(s.Personal) != 0 || len(s.Payment) != 0 || len(s.Markers) != 0 {
		t.Error("Expected empty field maps")
	}
	if len(s.History) != 1 || s.History[0] != StepPersonal {
		t.Errorf("Expected history [personal], got %v", s.History)
	}
}

func TestFormSession_SnapshotIsolation(t *testing.T) {
	s := NewFormSession("abc")
	s.Personal[FieldCity] = "Calgary"
	s.Markers[FieldCity] = Marker{State: MarkerValid}

	cp := s.Snapshot()
	cp.Personal[FieldCity] = "Ottawa"
	cp.Markers[FieldCity] = Marker{State: MarkerInvalid}
	cp.History = append(cp.History, StepCard)

	if s.Personal[FieldCity] != "Calgary" {
		t.Errorf("Snapshot mutated original personal map")
	}
	if s.Markers[FieldCity].State != MarkerValid {
		t.Errorf("Snapshot mutated original markers")
	}
	if len(s.History) != 1 {
		t.Errorf("Snapshot mutated original history")
	}
}

func TestNewStepIndicators(t *testing.T) {
	ind := NewStepIndicators(StepCard)
	if len(ind) != 3 {
		t.Fatalf("Expected 3 indicators, got %d", len(ind))
	}
	if !ind[0].Completed || ind[0].Active {
		t.Errorf("Expected personal completed, got %+v", ind[0])
	}
	if !ind[1].Active || ind[1].Completed {
		t.Errorf("Expected card active, got %+v", ind[1])
	}
	if ind[2].Active || ind[2].Completed {
		t.Errorf("Expected confirmation untouched, got %+v", ind[2])
	}
}

func TestNewSubmission_OmitsSensitiveData(t *testing.T) {
	s := NewFormSession("abc")
	s.Personal[FieldEmail] = "a@b.co"
	s.Card = CardDetails{
		Number:      "4111111111111111",
		NetworkName: "Visa",
		ExpiryMonth: 6,
		ExpiryYear:  2030,
		CVV:         "123",
	}

	fields := NewSubmission(s).Fields()
	if fields["lastFour"] != "1111" {
		t.Errorf("Expected lastFour 1111, got %q", fields["lastFour"])
	}
	if fields["cardType"] != "Visa" || fields["expiryYear"] != "2030" || fields["expiryMonth"] != "6" {
		t.Errorf("Unexpected card summary: %v", fields)
	}
	for k, v := range fields {
		if v == "4111111111111111" || v == "123" {
			t.Errorf("Field %s leaks sensitive value %q", k, v)
		}
	}
	if len(fields) != len(SubmissionKeys) {
		t.Errorf("Expected %d keys, got %d", len(SubmissionKeys), len(fields))
	}
}
