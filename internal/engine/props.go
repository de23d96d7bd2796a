package engine

import "math"

// Vec3 is a world-space position in meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistXZ returns the horizontal distance to other, ignoring height.
func (v Vec3) DistXZ(other Vec3) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Dist returns the full 3D distance to other.
func (v Vec3) Dist(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PropRole identifies what a registered object does in the shop.
type PropRole string

const (
	RoleRegister      PropRole = "register"
	RoleCoffeeMachine PropRole = "coffee_machine"
	RoleTrashCan      PropRole = "trash_can"
	RoleBroom         PropRole = "broom"
	RoleDustpan       PropRole = "dustpan"
	RoleCup           PropRole = "cup"    // a carryable drink
	RoleDollar        PropRole = "dollar" // a bill waiting to be collected
	RoleDecor         PropRole = "decor"
)

// Prop is one tracked world object. Kind is only meaningful for cups
// (what drink it holds); Owner ties a dollar bill to the customer who
// dropped it; Collected guards dollars against double pickup by the
// idempotent poll.
type Prop struct {
	ID        string   `json:"id"`
	Role      PropRole `json:"role"`
	Pos       Vec3     `json:"pos"`
	Kind      string   `json:"kind,omitempty"`
	Owner     string   `json:"owner,omitempty"`
	Collected bool     `json:"collected,omitempty"`
}

// propRegistry tracks every interactive object by ID. It is owned by
// the Game and only touched on the engine goroutine.
type propRegistry struct {
	props map[string]*Prop
}

func newPropRegistry() *propRegistry {
	return &propRegistry{props: make(map[string]*Prop)}
}

func (r *propRegistry) put(p *Prop) {
	r.props[p.ID] = p
}

func (r *propRegistry) get(id string) (*Prop, bool) {
	p, ok := r.props[id]
	return p, ok
}

func (r *propRegistry) remove(id string) {
	delete(r.props, id)
}

func (r *propRegistry) move(id string, pos Vec3) bool {
	p, ok := r.props[id]
	if !ok {
		return false
	}
	p.Pos = pos
	return true
}

// byRole returns all props with the given role.
func (r *propRegistry) byRole(role PropRole) []*Prop {
	var out []*Prop
	for _, p := range r.props {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

// firstByRole returns one prop of the role, for singletons like the
// register or the trash can.
func (r *propRegistry) firstByRole(role PropRole) (*Prop, bool) {
	for _, p := range r.props {
		if p.Role == role {
			return p, true
		}
	}
	return nil, false
}

// inDeliveryZone reports whether a carried item is close enough to a
// customer to count as handed over. Height tolerance is generous so
// the hand-off works standing or crouching.
func inDeliveryZone(cfg *Config, item, target Vec3) bool {
	if item.DistXZ(target) > cfg.DeliveryRadiusXZ {
		return false
	}
	return math.Abs(item.Y-target.Y) <= cfg.DeliveryRadiusY
}

// inScrubZone reports whether the broom head touches a stain.
func inScrubZone(cfg *Config, broom, stain Vec3) bool {
	if broom.DistXZ(stain) > cfg.BroomRadiusXZ {
		return false
	}
	return math.Abs(broom.Y-stain.Y) <= cfg.BroomRadiusY
}
