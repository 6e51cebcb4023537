package engine

// SetVolume sets the gain, clamped to [0, 1].
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	e.setGainLocked(clamp(v, 0, 1))
	e.mu.Unlock()

	e.emit()
}

// ToggleMute sets the gain to 0, or back to the default volume when it is
// already 0. The level before muting is not remembered.
func (e *Engine) ToggleMute() {
	e.mu.Lock()
	if e.volumeLocked() == 0 {
		e.setGainLocked(e.defaultVolume)
	} else {
		e.setGainLocked(0)
	}
	e.mu.Unlock()

	e.emit()
}

// Volume returns the current gain.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volumeLocked()
}

func (e *Engine) IsMuted() bool {
	return e.Volume() == 0
}

func (e *Engine) volumeLocked() float64 {
	if e.gain != nil {
		return e.gain.Value()
	}
	return e.level
}

func (e *Engine) setGainLocked(v float64) {
	if e.gain != nil {
		e.gain.SetValue(v)
		return
	}
	e.level = v
}
