package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/aurora-lab/aurora-trading/internal/logger"
)

// Manager owns the session windows and one breakout box per
// (symbol, session). It is driven by the controller's cycle and follows
// the same single-writer discipline as the boxes it holds.
type Manager struct {
	windows   []Window
	boxConfig BoxConfig
	boxes     map[boxKey]*Box
	// wasActive tracks window activity between cycles so boxes reset
	// exactly once when a window closes
	wasActive map[string]bool
	logger    *logger.Logger
}

type boxKey struct {
	symbol  string
	session string
}

// NewManager creates a manager for the given windows.
func NewManager(windows []Window, boxConfig BoxConfig, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Manager{
		windows:   windows,
		boxConfig: boxConfig.withDefaults(),
		boxes:     make(map[boxKey]*Box),
		wasActive: make(map[string]bool),
		logger:    log,
	}
}

// ActiveWindows returns the windows containing the given instant.
func (m *Manager) ActiveWindows(now time.Time) []Window {
	active := make([]Window, 0, len(m.windows))

	for _, w := range m.windows {
		if w.Active(now) {
			active = append(active, w)
		}
	}

	return active
}

// Box returns the breakout box for a (symbol, session), creating it on
// first use.
func (m *Manager) Box(symbol, session string) *Box {
	key := boxKey{symbol: symbol, session: session}

	box, ok := m.boxes[key]
	if !ok {
		box = NewBox(symbol, session, m.boxConfig)
		m.boxes[key] = box
	}

	return box
}

// ResetClosedSessions resets every box whose window just closed and
// returns the names of those windows. Called at the top of each cycle.
func (m *Manager) ResetClosedSessions(now time.Time) []string {
	var closed []string

	for _, w := range m.windows {
		active := w.Active(now)

		if m.wasActive[w.Name] && !active {
			closed = append(closed, w.Name)

			for key, box := range m.boxes {
				if key.session == w.Name {
					m.logger.Info("session closed, resetting breakout box",
						zap.String("session", w.Name),
						zap.String("symbol", key.symbol))
					box.Reset()
				}
			}
		}

		m.wasActive[w.Name] = active
	}

	return closed
}
