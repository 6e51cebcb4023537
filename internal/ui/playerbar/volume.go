package playerbar

import "fmt"

// Volume renders the volume indicator, e.g. "vol  80%" or "vol mute".
func Volume(volume float64, muted bool) string {
	if muted {
		return timeStyle().Render("vol mute")
	}
	pct := int(volume*100 + 0.5)
	return timeStyle().Render(fmt.Sprintf("vol %3d%%", pct))
}
