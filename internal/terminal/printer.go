package terminal

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/buscaminas/internal/mines"
)

// printer reports engine events on the terminal.
type printer struct {
	t *Terminal
}

func (p *printer) OnCellRevealed(c mines.RevealedCell) {
	switch {
	case c.IsMine:
		p.t.printf("boom at %d:%d\n", c.Row, c.Col)
	case p.t.verbose:
		p.t.printf("opened %d:%d (%d)\n", c.Row, c.Col, c.AdjacentMines)
	}
}

func (p *printer) OnFlagToggled(pt mines.Point, res mines.FlagResult) {
	if p.t.verbose {
		verb := "unflagged"
		if res.Flagged {
			verb = "flagged"
		}
		p.t.printf("%s %d:%d, %d left\n", verb, pt.Row, pt.Col, res.FlagsRemaining)
	}
}

func (p *printer) OnGameEnded(status mines.Status, elapsed time.Duration) {
	seconds := int(elapsed / time.Second)
	if status == mines.Won {
		p.t.printf("you won in %ds!\n", seconds)
	} else {
		p.t.printf("game over after %ds\n", seconds)
	}
	p.t.log.WithFields(logrus.Fields{
		"status":  status.String(),
		"elapsed": seconds,
	}).Info("game ended")
}
