package ui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdash/internal/model"
)

// stuckSender never accepts a message until released.
type stuckSender struct {
	release chan struct{}
	got     chan tea.Msg
}

func (s *stuckSender) Send(msg tea.Msg) {
	select {
	case s.got <- msg:
	default:
	}
	<-s.release
}

func TestForwardChangesNeverBlocksTheNotifier(t *testing.T) {
	b := newBackend()
	_, deps := newTestModel(t, b, false)

	s := &stuckSender{release: make(chan struct{}), got: make(chan tea.Msg, 1)}
	t.Cleanup(func() { close(s.release) })
	stop := ForwardChanges(s, deps.Resources)
	defer stop()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 100; i++ {
			_ = deps.Resources.Customers.OpenCreate()
			deps.Resources.Customers.Form.Cancel()
		}
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("notifications blocked on a stalled program")
	}
	select {
	case msg := <-s.got:
		assert.Equal(t, model.ChangedMsg{Screen: model.ScreenCustomers}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no change was forwarded")
	}
}

func TestProgramStaysResponsiveWithForwardedChanges(t *testing.T) {
	b := newBackend()
	m, deps := newTestModel(t, b, false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	stop := ForwardChanges(p, deps.Resources)
	defer stop()

	exited := make(chan error, 1)
	go func() {
		_, err := p.Run()
		exited <- err
	}()

	p.Send(keys("2"))
	require.Eventually(t, func() bool { return b.count("GET /customers") == 1 }, 3*time.Second, 10*time.Millisecond)

	// Opening the form and typing into search notify from inside Update.
	go func() {
		p.Send(keys("a"))
		p.Send(tea.KeyMsg{Type: tea.KeyEsc})
		p.Send(keys("/"))
		p.Send(keys("acme"))
		p.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	}()

	select {
	case err := <-exited:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("event loop stopped processing messages")
	}
}
