package models

// SideEffect reports a best-effort step that ran after the primary write.
type SideEffect struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Side effect names.
const (
	EffectAwardPoints   = "award_points"
	EffectMoveObject    = "move_object"
	EffectRemoveObject  = "remove_object"
	EffectHideTarget    = "hide_target"
	EffectAuditLog      = "audit_log"
	EffectPublishChange = "publish_change"
)

// Outcome is a primary result plus the side effects that followed it. A failed
// side effect never fails the operation; callers decide whether to surface it.
type Outcome[T any] struct {
	Result      T            `json:"result"`
	SideEffects []SideEffect `json:"side_effects,omitempty"`
}

// Record appends the outcome of a side effect.
func (o *Outcome[T]) Record(name string, err error) {
	effect := SideEffect{Name: name, OK: err == nil}
	if err != nil {
		effect.Error = err.Error()
	}
	o.SideEffects = append(o.SideEffects, effect)
}

// Failed lists side effects that did not complete.
func (o Outcome[T]) Failed() []SideEffect {
	var failed []SideEffect
	for _, e := range o.SideEffects {
		if !e.OK {
			failed = append(failed, e)
		}
	}
	return failed
}
