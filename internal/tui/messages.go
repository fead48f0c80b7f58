package tui

import (
	"github.com/Veraticus/finanhome/internal/advisor"
	"github.com/Veraticus/finanhome/internal/engine"
)

// adviceMsg carries the result of an advisory request.
type adviceMsg struct {
	err    error
	advice advisor.Advice
}

// dashboardMsg carries a freshly derived dashboard.
type dashboardMsg struct {
	dashboard engine.Dashboard
}

// unlockMsg reports the outcome of a PIN attempt.
type unlockMsg struct {
	err error
}

// lockMsg reports the outcome of locking.
type lockMsg struct {
	err error
}
