package engine

import (
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/shopspring/decimal"
)

// MilestoneState is the gamification view of revenue.
type MilestoneState struct {
	Next       model.Milestone `json:"next"`
	Level      string          `json:"level"`
	Milestones []MilestoneView `json:"milestones"`
	Unlocked   int             `json:"unlocked"`
}

// MilestoneView pairs a milestone with whether it has been reached.
type MilestoneView struct {
	model.Milestone
	Unlocked bool `json:"unlocked"`
}

// Milestones derives the unlocked count, level title and next target from revenue.
// milestones must be ascending by target. Once every target is passed, Next stays on
// the last milestone.
func Milestones(revenue decimal.Decimal, milestones []model.Milestone) MilestoneState {
	state := MilestoneState{
		Milestones: make([]MilestoneView, 0, len(milestones)),
	}

	nextSet := false
	for _, m := range milestones {
		reached := m.Target.LessThanOrEqual(revenue)
		if reached {
			state.Unlocked++
		} else if !nextSet {
			state.Next = m
			nextSet = true
		}
		state.Milestones = append(state.Milestones, MilestoneView{Milestone: m, Unlocked: reached})
	}

	if !nextSet && len(milestones) > 0 {
		state.Next = milestones[len(milestones)-1]
	}

	state.Level = LevelTitle(state.Unlocked)
	return state
}

// LevelTitle maps an unlocked count to its title, saturating at the last tier.
func LevelTitle(unlocked int) string {
	titles := model.LevelTitles
	switch {
	case len(titles) == 0:
		return ""
	case unlocked < 0:
		return titles[0]
	case unlocked >= len(titles):
		return titles[len(titles)-1]
	default:
		return titles[unlocked]
	}
}
