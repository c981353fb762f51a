package sim

import "github.com/pthm-cable/terrarium/telemetry"

// Hooks is the outbound event surface of a session. All callbacks run on
// the tick goroutine after the tick's state is committed, so they may call
// back into the session's query surface. A nil Hooks is legal for headless
// batch runs.
type Hooks interface {
	// OnTick fires once per completed active tick. Idle ticks are silent.
	OnTick(tick int)

	// OnOrganismUpdate delivers the full post-tick organism list, newly
	// born included and newly dead excluded. The slice is a private copy.
	OnOrganismUpdate(organisms []telemetry.OrganismState)

	// OnSimulationComplete fires exactly once, when the tick count reaches
	// the configured limit.
	OnSimulationComplete()

	// OnOrganismClick is a pass-through for external pointer interaction,
	// forwarded from Session.Click.
	OnOrganismClick(organism telemetry.OrganismState)
}
