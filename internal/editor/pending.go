package editor

// pendingEdit is a compensating transaction over editor state: apply makes
// the optimistic local mutation, and compensate restores the pre-image
// captured at issue time if the persistence call fails. The pre-image is
// bound into compensate when the edit is built, so a stale failure can only
// ever undo the exact state it replaced.
type pendingEdit struct {
	apply      func()
	compensate func()
}

// run applies the edit, issues the persistence call, and compensates on
// failure. The error is returned unchanged so callers can surface it.
func (e pendingEdit) run(persist func() error) error {
	e.apply()
	if err := persist(); err != nil {
		e.compensate()
		return err
	}
	return nil
}
