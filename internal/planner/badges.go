package planner

import (
	"github.com/ekalavya-cmd/studbud-backend/internal/types"
)

// evaluateBadges scans the full task list and current streak, grants any
// newly earned badge exactly once, and applies bonus points. Badges are
// never revoked.
func (p *Planner) evaluateBadges() []Award {
	var awards []Award

	highCompleted := 0
	completed := 0
	early := 0
	for _, t := range p.profile.Tasks {
		if !t.Completed {
			continue
		}
		completed++
		if t.Priority == types.PriorityHigh {
			highCompleted++
		}
		if !t.CompletedDate.IsZero() && !t.DueDate.IsZero() && t.CompletedDate.Before(t.DueDate) {
			early++
		}
	}

	if highCompleted >= types.PriorityMasterHighTasks && !p.profile.HasBadge(types.BadgePriorityMaster) {
		awards = append(awards, p.grant(types.BadgePriorityMaster, 0))
	}
	if completed >= types.TaskTitanCompletedTasks && !p.profile.HasBadge(types.BadgeTaskTitan) {
		awards = append(awards, p.grant(types.BadgeTaskTitan, 0))
	}
	if early >= types.EarlyBirdEarlyTasks && !p.profile.HasBadge(types.BadgeEarlyBird) {
		awards = append(awards, p.grant(types.BadgeEarlyBird, 0))
	}
	if p.profile.StudyStats.Streak >= types.StreakStarDays && !p.profile.HasBadge(types.BadgeStreakStar) {
		awards = append(awards, p.grant(types.BadgeStreakStar, types.StreakStarBonusPoints))
	}
	return awards
}

func (p *Planner) grant(badge string, bonus int) Award {
	p.profile.Badges = append(p.profile.Badges, badge)
	if bonus != 0 {
		p.profile.Points += bonus
	}
	p.log.Info("Badge earned", "badge", badge, "bonus_points", bonus)
	return Award{Badge: badge, BonusPoints: bonus}
}
