package mines

import "fmt"

type InvalidConfigError struct {
	Config GameConfig
	reason string
}

// [InvalidConfigError] implements [error]
func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid game config %s: %s", e.Config, e.reason)
}
