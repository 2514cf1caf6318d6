package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stockcheck/internal/settings"
)

// Bridge carries navigation requests, toasts and state changes from the
// settings provider into the bubbletea loop. Posting never blocks; messages
// are delivered in the order they were posted.
type Bridge struct {
	mu     sync.Mutex
	queue  []tea.Msg
	ready  chan struct{}
	done   chan struct{}
	closed sync.Once
}

func NewBridge() *Bridge {
	return &Bridge{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (b *Bridge) Navigate(screen settings.Screen, params settings.Params) {
	b.post(navigateMsg{screen: screen, params: params})
}

func (b *Bridge) Show(n settings.Notification) {
	b.post(toastMsg{n: n})
}

// Publish forwards provider state; pass it to Provider.Subscribe.
func (b *Bridge) Publish(s settings.State) {
	b.post(stateMsg{state: s})
}

// Close releases any pending Wait.
func (b *Bridge) Close() {
	b.closed.Do(func() { close(b.done) })
}

func (b *Bridge) post(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Wait returns a command that yields the next queued message. Only one Wait
// should be outstanding at a time.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			b.mu.Lock()
			if len(b.queue) > 0 {
				msg := b.queue[0]
				b.queue = b.queue[1:]
				b.mu.Unlock()
				return bridgeMsg{msg: msg}
			}
			b.mu.Unlock()
			select {
			case <-b.ready:
			case <-b.done:
				return nil
			}
		}
	}
}
