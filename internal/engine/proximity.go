package engine

import "github.com/holobarista/server/internal/domain/order"

// PollProximity evaluates every distance-triggered interaction once.
// The engine loop calls it on a fixed interval; each rule is
// idempotent, so a prop that already triggered is simply gone (or
// flagged collected) on the next poll.
func (g *Game) PollProximity() {
	g.pollDeliveries()
	g.pollBillCollection()
	g.pollTrash()
	g.pollScrubbing()
}

// pollDeliveries hands a carried cup to the customer being served
// when it enters their delivery zone. The cup is consumed either way;
// a wrong drink is wasted.
func (g *Game) pollDeliveries() {
	c := g.Active()
	if c == nil {
		return
	}
	target, ok := g.custPos[c.ID]
	if !ok {
		return
	}
	for _, cup := range g.props.byRole(RoleCup) {
		if !inDeliveryZone(g.cfg, cup.Pos, target) {
			continue
		}
		g.props.remove(cup.ID)
		g.DeliverItem(order.ItemKind(cup.Kind))
	}
}

// pollBillCollection cashes a dropped bill once the player brings it
// to the register. The Collected flag keeps a bill from paying twice
// while its removal is in flight.
func (g *Game) pollBillCollection() {
	reg, ok := g.props.firstByRole(RoleRegister)
	if !ok {
		return
	}
	for _, bill := range g.props.byRole(RoleDollar) {
		if bill.Collected || bill.Pos.Dist(reg.Pos) > g.cfg.RegisterRadius {
			continue
		}
		bill.Collected = true
		g.props.remove(bill.ID)
		g.CollectPayment(bill.Owner)
	}
}

// pollTrash removes carryables dropped into the trash can.
func (g *Game) pollTrash() {
	trash, ok := g.props.firstByRole(RoleTrashCan)
	if !ok {
		return
	}
	for _, role := range []PropRole{RoleCup, RoleDustpan} {
		for _, p := range g.props.byRole(role) {
			if p.Pos.Dist(trash.Pos) <= g.cfg.TrashRadius {
				g.TrashItem(p.ID)
			}
		}
	}
}

// pollScrubbing applies one scrub to every stain a broom head is
// touching this poll.
func (g *Game) pollScrubbing() {
	brooms := g.props.byRole(RoleBroom)
	if len(brooms) == 0 {
		return
	}
	for _, s := range g.stains {
		for _, b := range brooms {
			if inScrubZone(g.cfg, b.Pos, s.Pos) {
				g.ScrubStain(s.ID)
				break
			}
		}
	}
}
