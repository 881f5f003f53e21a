package domain

// SessionDiff represents the changes between two snapshots of a session.
// It is serialized to JSON for partial updates on subscribed clients.
// Field values are never included, only the names of inputs that changed.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentStep *Step `json:"current_step,omitempty"`

	// ChangedFields names inputs whose value changed, in no particular order.
	ChangedFields []string `json:"changed_fields,omitempty"`

	// Markers contains changed markers. A nil value means the marker was cleared.
	Markers map[string]*Marker `json:"markers,omitempty"`

	PaymentError *string `json:"payment_error,omitempty"`

	// Appended holds steps appended to the history.
	Appended []Step `json:"appended,omitempty"`
}

// Diff calculates the difference between old and new.
// If old is nil, it returns a diff representing the entire new session.
// It returns nil when nothing changed.
func Diff(old, new *FormSession) *SessionDiff {
	if new == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: new.ID}

	if old == nil || old.CurrentStep != new.CurrentStep {
		step := new.CurrentStep
		diff.CurrentStep = &step
	}
	if old == nil || old.PaymentError != new.PaymentError {
		msg := new.PaymentError
		diff.PaymentError = &msg
	}

	diff.ChangedFields = append(diffValues(old, new, func(s *FormSession) map[string]string { return s.Personal }),
		diffValues(old, new, func(s *FormSession) map[string]string { return s.Payment })...)
	diff.Markers = diffMarkers(old, new)
	diff.Appended = diffHistory(old, new)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffValues(old, new *FormSession, pick func(*FormSession) map[string]string) []string {
	var changed []string
	newVals := pick(new)
	if old == nil {
		for k := range newVals {
			changed = append(changed, k)
		}
		return changed
	}
	oldVals := pick(old)
	for k, v := range newVals {
		if oldVals[k] != v {
			changed = append(changed, k)
		}
	}
	for k, v := range oldVals {
		if _, ok := newVals[k]; !ok && v != "" {
			changed = append(changed, k)
		}
	}
	return changed
}

func diffMarkers(old, new *FormSession) map[string]*Marker {
	delta := make(map[string]*Marker)
	for k, m := range new.Markers {
		if old != nil {
			if prev, ok := old.Markers[k]; ok && prev == m {
				continue
			}
		}
		m := m
		delta[k] = &m
	}
	if old != nil {
		for k := range old.Markers {
			if _, ok := new.Markers[k]; !ok {
				delta[k] = nil
			}
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffHistory assumes append-only history; a reset rewrites it and is
// reported through CurrentStep instead.
func diffHistory(old, new *FormSession) []Step {
	if len(new.History) == 0 {
		return nil
	}
	if old == nil {
		return new.History
	}
	if len(new.History) > len(old.History) {
		return new.History[len(old.History):]
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.CurrentStep == nil &&
		d.PaymentError == nil &&
		len(d.ChangedFields) == 0 &&
		len(d.Markers) == 0 &&
		len(d.Appended) == 0
}
