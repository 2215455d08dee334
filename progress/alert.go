package progress

// AlertLevel is the urgency tier of the upcoming-maneuver notification.
// Levels are ordered; Arrive is terminal.
type AlertLevel int

const (
	AlertNone AlertLevel = iota
	AlertDepart
	AlertLow
	AlertMedium
	AlertHigh
	AlertArrive
)

var alertLevelNames = [...]string{"none", "depart", "low", "medium", "high", "arrive"}

func (a AlertLevel) String() string {
	if a < AlertNone || a > AlertArrive {
		return "unknown"
	}
	return alertLevelNames[a]
}

// ParseAlertLevel converts a level name back to its value.
func ParseAlertLevel(s string) (AlertLevel, bool) {
	for i, name := range alertLevelNames {
		if name == s {
			return AlertLevel(i), true
		}
	}
	return AlertNone, false
}
