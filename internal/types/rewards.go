package types

// Theme catalog is closed. Light Mode is the default and is always unlocked;
// the rest are redeemed for points.
const (
	ThemeLight   = "Light Mode"
	ThemeDark    = "Dark Mode"
	ThemeOcean   = "Ocean Breeze"
	ThemeSunset  = "Sunset Glow"
	ThemeForest  = "Forest Whisper"
	DefaultTheme = ThemeLight

	// ThemeCost is the point price of every unlockable theme.
	ThemeCost = 50
)

var ThemeCatalog = []string{ThemeLight, ThemeDark, ThemeOcean, ThemeSunset, ThemeForest}

func ValidTheme(name string) bool {
	for _, t := range ThemeCatalog {
		if t == name {
			return true
		}
	}
	return false
}

// Badge names. Earning is one-way; a badge never leaves the set.
const (
	BadgePriorityMaster = "Priority Master"
	BadgeTaskTitan      = "Task Titan"
	BadgeEarlyBird      = "Early Bird"
	BadgeStreakStar     = "Streak Star"
)

// Badge thresholds and bonuses.
const (
	PriorityMasterHighTasks = 5
	TaskTitanCompletedTasks = 10
	EarlyBirdEarlyTasks     = 3
	StreakStarDays          = 7
	StreakStarBonusPoints   = 50
)
