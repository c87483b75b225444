package mines

import "time"

// Notifier receives the effects of player actions as they happen. A
// presentation layer implements it to redraw only what changed.
type Notifier interface {
	OnCellRevealed(cell RevealedCell)
	OnFlagToggled(p Point, res FlagResult)
	OnGameEnded(status Status, elapsed time.Duration)
}

type nopNotifier struct{}

func (nopNotifier) OnCellRevealed(RevealedCell) {}
func (nopNotifier) OnFlagToggled(Point, FlagResult) {}
func (nopNotifier) OnGameEnded(Status, time.Duration) {}
