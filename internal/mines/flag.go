package mines

type FlagResult struct {
	Flagged        bool `json:"flagged"`
	FlagsRemaining int  `json:"flags_remaining"`
	Changed        bool `json:"changed"`
}

// ToggleFlag flags or unflags a hidden cell. Flags are capped by the mine
// count: with none left, flagging is ignored.
func (b *Board) ToggleFlag(row, col int) FlagResult {
	res := FlagResult{FlagsRemaining: b.FlagsRemaining()}
	if !b.PointInBounds(row, col) {
		return res
	}
	c := &b.Cells[b.index(row, col)]
	res.Flagged = c.Flagged
	if c.Revealed {
		return res
	}

	switch {
	case c.Flagged:
		c.Flagged = false
		b.Flags--
	case b.FlagsRemaining() > 0:
		c.Flagged = true
		b.Flags++
	default:
		return res
	}

	return FlagResult{
		Flagged:        c.Flagged,
		FlagsRemaining: b.FlagsRemaining(),
		Changed:        true,
	}
}
