package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stockcheck/internal/database/repository"
	"github.com/jask/stockcheck/internal/settings"
)

// bridgeMsg wraps everything that arrives through the Bridge queue, so the
// router knows to re-arm the wait.
type bridgeMsg struct{ msg tea.Msg }

type navigateMsg struct {
	screen settings.Screen
	params settings.Params
}

type toastMsg struct{ n settings.Notification }

type toastExpiredMsg struct{ seq int }

type stateMsg struct{ state settings.State }

type pushScreenMsg struct{ screen Screen }

type statusMsg string

type errMsg struct{ error }

type companiesMsg struct {
	companies []repository.Company
	err       error
}

type productsMsg struct {
	products []repository.Product
	err      error
}

type productMsg struct {
	id      string
	product *repository.Product
	err     error
}
