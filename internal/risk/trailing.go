package risk

// TrailingStop ratchets a long position's protective stop upward as the
// price advances. The stop never moves down.
type TrailingStop struct {
	// Entry is the position's entry price
	Entry float64
	// TrailPct is the stop distance maintained below the peak price
	TrailPct float64
	// BreakevenTriggerPct is the profit fraction at which the stop is
	// raised to at least the entry price
	BreakevenTriggerPct float64

	peak float64
	stop float64
}

// NewTrailingStop creates a trailing stop seeded with the initial stop
// level, typically entry * (1 - stopLossPct).
func NewTrailingStop(entry, initialStop, trailPct, breakevenTriggerPct float64) *TrailingStop {
	return &TrailingStop{
		Entry:               entry,
		TrailPct:            trailPct,
		BreakevenTriggerPct: breakevenTriggerPct,
		peak:                entry,
		stop:                initialStop,
	}
}

// Update feeds a new price and returns the current stop level.
func (t *TrailingStop) Update(price float64) float64 {
	if price > t.peak {
		t.peak = price
	}

	candidate := t.peak * (1 - t.TrailPct)

	if t.BreakevenTriggerPct > 0 && t.peak >= t.Entry*(1+t.BreakevenTriggerPct) && candidate < t.Entry {
		candidate = t.Entry
	}

	if candidate > t.stop {
		t.stop = candidate
	}

	return t.stop
}

// Stop returns the current stop level without updating it.
func (t *TrailingStop) Stop() float64 {
	return t.stop
}

// Triggered reports whether the given price has reached the stop.
func (t *TrailingStop) Triggered(price float64) bool {
	return price <= t.stop
}
