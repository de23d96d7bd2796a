package network

import (
	"encoding/json"

	"github.com/holobarista/server/internal/domain/customer"
	"github.com/holobarista/server/internal/engine"
)

// frame is the envelope for presentation cues pushed to clients. The
// AR frontend switches on Kind to drive visuals.
type frame struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data"`
}

// HubPresenter forwards engine presentation cues to every connected
// WebSocket client. All methods are non-blocking; a saturated hub
// drops frames instead of stalling the simulation.
type HubPresenter struct {
	hub *Hub
}

// NewHubPresenter wraps a hub as an engine.Presenter.
func NewHubPresenter(hub *Hub) *HubPresenter {
	return &HubPresenter{hub: hub}
}

func (p *HubPresenter) push(kind string, data interface{}) {
	payload, err := json.Marshal(frame{Kind: kind, Data: data})
	if err != nil {
		p.hub.logger.Error("Failed to serialize presentation frame: " + err.Error())
		return
	}
	p.hub.broadcastBytes(payload)
}

func (p *HubPresenter) CustomerSpawned(c *customer.Customer) {
	p.push("customer_spawned", c)
}

func (p *HubPresenter) CustomerMoved(c *customer.Customer) {
	p.push("customer_moved", map[string]interface{}{
		"id":       c.ID,
		"position": c.QueuePosition,
	})
}

func (p *HubPresenter) CustomerSpeaks(c *customer.Customer, text string) {
	p.push("customer_speaks", map[string]interface{}{
		"id":   c.ID,
		"text": text,
	})
}

func (p *HubPresenter) PatienceChanged(c *customer.Customer, width float64, colorHex string) {
	p.push("patience", map[string]interface{}{
		"id":    c.ID,
		"width": width,
		"color": colorHex,
	})
}

func (p *HubPresenter) CustomerLeft(c *customer.Customer, angry bool) {
	p.push("customer_left", map[string]interface{}{
		"id":    c.ID,
		"angry": angry,
	})
}

func (p *HubPresenter) StainSpawned(id string, pos engine.Vec3) {
	p.push("stain_spawned", map[string]interface{}{
		"id":  id,
		"pos": pos,
	})
}

func (p *HubPresenter) StainProgress(id string, health float64) {
	p.push("stain_progress", map[string]interface{}{
		"id":     id,
		"health": health,
	})
}

func (p *HubPresenter) StainRemoved(id string) {
	p.push("stain_removed", map[string]interface{}{"id": id})
}

func (p *HubPresenter) BalanceChanged(balance int) {
	p.push("balance", map[string]interface{}{"balance": balance})
}

func (p *HubPresenter) Notify(text string) {
	p.push("notify", map[string]interface{}{"text": text})
}

func (p *HubPresenter) PlaySound(name string) {
	p.push("sound", map[string]interface{}{"name": name})
}
