package viewmode

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the active layout of the plot region.
type Mode int

const (
	// Aggregated shows the top-aggregate panels above a list of detail panels.
	Aggregated Mode = iota
	// SkyGrid shows one tab per sky panel and leaves the top region empty.
	SkyGrid
)

// ErrUnknownMode indicates a view mode name that is not recognized.
var ErrUnknownMode = errors.New("unknown view mode")

// String returns the config name of the mode.
func (m Mode) String() string {
	switch m {
	case Aggregated:
		return "aggregated"
	case SkyGrid:
		return "skygrid"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Title returns the label shown on the view switcher.
func (m Mode) Title() string {
	if m == SkyGrid {
		return "Skyplot View"
	}
	return "Detail View"
}

// Other returns the mode a toggle switches to.
func (m Mode) Other() Mode {
	if m == SkyGrid {
		return Aggregated
	}
	return SkyGrid
}

// ParseMode converts a config name into a Mode. Matching ignores case and
// accepts the switcher titles.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aggregated", "detail", "detail view":
		return Aggregated, nil
	case "skygrid", "sky", "skyplot view":
		return SkyGrid, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
