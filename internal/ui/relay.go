package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"bizdash/internal/model"
	"bizdash/internal/resources"
)

// sender is satisfied by *tea.Program.
type sender interface {
	Send(msg tea.Msg)
}

// ForwardChanges relays view-model notifications to p as ChangedMsg.
// Notifications often fire inside Model.Update on the event loop, so the
// callback only queues the screen and a separate goroutine delivers it.
// When the queue is full the notification is dropped; a pending ChangedMsg
// already forces the re-render. The returned func stops the relay.
func ForwardChanges(p sender, set *resources.Set) (stop func()) {
	queue := make(chan model.Screen, 16)
	done := make(chan struct{})

	changed := func(screen model.Screen) func() {
		return func() {
			select {
			case queue <- screen:
			default:
			}
		}
	}
	unsubs := []func(){
		set.Customers.Subscribe(changed(model.ScreenCustomers)),
		set.Materials.Subscribe(changed(model.ScreenMaterials)),
		set.TimeEntries.Subscribe(changed(model.ScreenTimeEntries)),
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case screen := <-queue:
				// Send returns once the program has exited.
				p.Send(model.ChangedMsg{Screen: screen})
			}
		}
	}()

	return func() {
		for _, u := range unsubs {
			u()
		}
		close(done)
	}
}
