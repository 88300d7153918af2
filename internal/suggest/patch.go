package suggest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PatchContext carries the live values the patched text must agree with.
type PatchContext struct {
	Streak             int
	TodayHours         float64
	HasQualifyingTasks bool
}

var (
	streakLineRe = regexp.MustCompile(`- Your current streak is (\d+) day(s)?`)
	hoursLineRe  = regexp.MustCompile(`- Total study hours for today: (\d+(\.\d+)?) hour`)
	mathBlockRe  = regexp.MustCompile(`(?s)Low Priority:.*?General Study Tip:`)
)

// PatchInvariants enforces the structural contract on default-plan text,
// whatever produced it. Each step is a presence test before mutation, so
// running the pass twice is a no-op.
func PatchInvariants(text string, ctx PatchContext) string {
	streakLine := fmt.Sprintf("- Your current streak is %d day%s", ctx.Streak, plural(ctx.Streak != 1))
	hoursLine := fmt.Sprintf("- Total study hours for today: %s hour", formatHours(ctx.TodayHours))
	habitsBlock := fmt.Sprintf("- Habits:\n  %s\n  %s\n  - %s", hoursLine, streakLine, StreakEncouragement)

	// Required closing sentence.
	if !strings.Contains(text, RequiredClosing) {
		text = strings.TrimSpace(text) + "\n" + RequiredClosing
	}

	// Streak line: fix the number in place, insert into an existing Habits
	// section, or append a whole Habits block.
	if m := streakLineRe.FindStringSubmatch(text); m == nil {
		if strings.Contains(text, "- Habits:\n") {
			text = strings.Replace(text, "- Habits:\n",
				fmt.Sprintf("- Habits:\n  %s\n  %s\n", hoursLine, streakLine), 1)
		} else {
			text = text + "\n" + habitsBlock
		}
	} else if reported, _ := strconv.Atoi(m[1]); reported != ctx.Streak {
		text = replaceFirst(streakLineRe, text, streakLine)
	}

	// Hours line, same pattern.
	if m := hoursLineRe.FindStringSubmatch(text); m == nil {
		if strings.Contains(text, "- Habits:\n") {
			text = strings.Replace(text, "- Habits:\n",
				fmt.Sprintf("- Habits:\n  %s\n", hoursLine), 1)
		} else {
			text = text + "\n" + habitsBlock
		}
	} else if reported, _ := strconv.ParseFloat(m[1], 64); reported != ctx.TodayHours {
		text = replaceFirst(hoursLineRe, text, hoursLine)
	}

	// A stale prompt template occasionally leaks a Math-flavored task block.
	if strings.Contains(text, "Math") {
		text = replaceFirst(mathBlockRe, text, "Low Priority:\n- None\nGeneral Study Tip:")
	}

	// With no qualifying tasks the plan still owes the reader one tip.
	if !ctx.HasQualifyingTasks && !strings.Contains(text, "- General Study Tip:") {
		text = strings.Replace(text, "- Habits:",
			fmt.Sprintf("- General Study Tip:\n  - %s\n- Habits:", GenericStudyTip), 1)
	}

	return text
}

func replaceFirst(re *regexp.Regexp, text, replacement string) string {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + replacement + text[loc[1]:]
}

func plural(p bool) string {
	if p {
		return "s"
	}
	return ""
}

// formatHours renders hours the way the templates expect: no exponent, no
// trailing zeros.
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
