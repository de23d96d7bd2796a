package engine

import "github.com/holobarista/server/internal/domain/customer"

// Presenter receives fire-and-forget visual cues from the simulation.
// Implementations must not block and must not call back into the
// engine synchronously; the hub-backed presenter just queues frames
// for connected clients.
type Presenter interface {
	// CustomerSpawned introduces a new visitor walking toward the
	// given queue slot.
	CustomerSpawned(c *customer.Customer)
	// CustomerMoved repositions a visitor after the queue shifts.
	CustomerMoved(c *customer.Customer)
	// CustomerSpeaks updates the visitor's speech bubble.
	CustomerSpeaks(c *customer.Customer, text string)
	// PatienceChanged updates a visitor's patience bar.
	PatienceChanged(c *customer.Customer, width float64, colorHex string)
	// CustomerLeft removes the visitor, angrily or satisfied.
	CustomerLeft(c *customer.Customer, angry bool)
	// StainSpawned and StainProgress drive the floor mess visuals.
	StainSpawned(id string, pos Vec3)
	StainProgress(id string, health float64)
	StainRemoved(id string)
	// BalanceChanged updates the HUD earnings counter.
	BalanceChanged(balance int)
	// Notify shows a transient message to the player.
	Notify(text string)
	// PlaySound triggers a named audio cue.
	PlaySound(name string)
}

// NopPresenter discards every cue. Used headless and in tests that
// do not assert on presentation.
type NopPresenter struct{}

func (NopPresenter) CustomerSpawned(*customer.Customer) {}

func (NopPresenter) CustomerMoved(*customer.Customer) {}

func (NopPresenter) CustomerSpeaks(*customer.Customer, string) {}

func (NopPresenter) PatienceChanged(*customer.Customer, float64, string) {}

func (NopPresenter) CustomerLeft(*customer.Customer, bool) {}

func (NopPresenter) StainSpawned(string, Vec3) {}

func (NopPresenter) StainProgress(string, float64) {}

func (NopPresenter) StainRemoved(string) {}

func (NopPresenter) BalanceChanged(int) {}

func (NopPresenter) Notify(string) {}

func (NopPresenter) PlaySound(string) {}
