package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type GameConfig struct {
	Rows      int `json:"rows" yaml:"rows"`
	Cols      int `json:"cols" yaml:"cols"`
	MineCount int `json:"mine_count" yaml:"mine_count"`
}

var (
	Beginner     = GameConfig{Rows: 8, Cols: 8, MineCount: 10}
	Intermediate = GameConfig{Rows: 16, Cols: 16, MineCount: 40}
	Expert       = GameConfig{Rows: 16, Cols: 30, MineCount: 99}
)

var presets = map[string]GameConfig{
	"beginner":     Beginner,
	"intermediate": Intermediate,
	"expert":       Expert,
}

// Preset looks up a difficulty by name (beginner, intermediate, expert).
func Preset(name string) (GameConfig, bool) {
	c, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// PresetNames lists the known difficulties from easiest to hardest.
func PresetNames() []string {
	return []string{"beginner", "intermediate", "expert"}
}

func (c GameConfig) Unpack() (rows int, cols int, mineCount int) {
	return c.Rows, c.Cols, c.MineCount
}

func (c GameConfig) CellCount() int {
	return c.Rows * c.Cols
}

func (c GameConfig) SafeCount() int {
	return c.CellCount() - c.MineCount
}

func (c GameConfig) Validate() error {
	switch {
	case c.Rows <= 0:
		return InvalidConfigError{c, "rows must be positive"}
	case c.Cols <= 0:
		return InvalidConfigError{c, "cols must be positive"}
	case c.MineCount < 0:
		return InvalidConfigError{c, "mine count cannot be negative"}
	case c.MineCount >= c.CellCount():
		return InvalidConfigError{c, "mine count must be less than the number of cells"}
	}
	return nil
}

func (c GameConfig) PointInBounds(row, col int) bool {
	return 0 <= row && row < c.Rows && 0 <= col && col < c.Cols
}

// String formats the config as rows:cols:mines.
func (c GameConfig) String() string {
	return fmt.Sprintf("%d:%d:%d", c.Rows, c.Cols, c.MineCount)
}

// ParseConfig accepts either a preset name or the rows:cols:mines form
// produced by [GameConfig.String]. The result is validated.
func ParseConfig(s string) (*GameConfig, error) {
	if c, ok := Preset(s); ok {
		return &c, nil
	}
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return nil, fmt.Errorf(
			`invalid game config "%s": want rows:cols:mines`, s,
		)
	}
	values := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf(`invalid game config "%s": %w`, s, err)
		}
		values[i] = v
	}
	c := &GameConfig{Rows: values[0], Cols: values[1], MineCount: values[2]}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
