package engine

import (
	"testing"

	"github.com/Veraticus/finanhome/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMilestones(t *testing.T) {
	milestones := model.DefaultMilestones()

	tests := []struct {
		name         string
		revenue      string
		wantUnlocked int
		wantNext     string
		wantLevel    string
	}{
		{"nothing yet", "0", 0, "Primeiro Passo", "Beginner"},
		{"exactly on first target", "50000", 1, "Consolidação", "Apprentice"},
		{"between targets", "300000", 3, "Expansão Sólida", "Achiever"},
		{"everything unlocked repeats the last", "900000", 5, "Sonho Europeu", "Legend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Milestones(dec(tt.revenue), milestones)
			assert.Equal(t, tt.wantUnlocked, state.Unlocked)
			assert.Equal(t, tt.wantNext, state.Next.Label)
			assert.Equal(t, tt.wantLevel, state.Level)
			assert.Len(t, state.Milestones, len(milestones))
		})
	}
}

func TestMilestones_Monotonic(t *testing.T) {
	milestones := model.DefaultMilestones()
	previous := 0

	for revenue := int64(0); revenue <= 600000; revenue += 5000 {
		r := decimal.NewFromInt(revenue)
		state := Milestones(r, milestones)

		assert.GreaterOrEqual(t, state.Unlocked, previous, "revenue %d", revenue)
		previous = state.Unlocked

		if state.Unlocked < len(milestones) {
			assert.True(t, state.Next.Target.GreaterThan(r), "next target %s must exceed revenue %d", state.Next.Target, revenue)
		}
	}
}

func TestMilestones_Empty(t *testing.T) {
	state := Milestones(dec("100"), nil)
	assert.Equal(t, 0, state.Unlocked)
	assert.Equal(t, "Beginner", state.Level)
	assert.Empty(t, state.Milestones)
}

func TestLevelTitle_Saturates(t *testing.T) {
	assert.Equal(t, "Beginner", LevelTitle(-1))
	assert.Equal(t, "Legend", LevelTitle(42))
}
