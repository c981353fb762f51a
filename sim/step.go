package sim

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/geom"
	"github.com/pthm-cable/terrarium/systems"
	"github.com/pthm-cable/terrarium/telemetry"
)

// Step runs one atomic active tick and reports whether the run just
// completed. It is a no-op unless the session is running. Hooks fire after
// the tick's state is committed and the lock released.
func (s *Session) Step() bool {
	s.mu.Lock()
	if s.mode != ModeRunning {
		s.mu.Unlock()
		return false
	}

	s.step()
	tick := s.tick

	completed := s.tickLimit > 0 && s.tick >= s.tickLimit
	if completed {
		s.mode = ModeFinishedActive
	}
	var snap []telemetry.OrganismState
	hooks := s.hooks
	if hooks != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if hooks != nil {
		hooks.OnTick(tick)
		hooks.OnOrganismUpdate(snap)
	}
	if completed {
		if hooks != nil {
			hooks.OnSimulationComplete()
		}
		s.mu.Lock()
		s.mode = ModeFinishedIdle
		s.mu.Unlock()
	}
	return completed
}

// IdleStep runs one visual-only tick: movement, cosmetic oscillation, and
// particles. No energy, aging, interactions, reproduction, death, or
// telemetry, and no hook notifications. The authoritative tick counter is
// frozen; only the frame counter advances.
func (s *Session) IdleStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeFinishedIdle {
		return
	}

	s.frame++
	views := s.buildViews()
	s.movementPass(views)
	s.particles.EmitAmbient(s.rng, s.env.Width, s.env.Height, s.env.Biome, s.noise, s.frame)
	s.particles.Update()
}

// step runs the active tick phases in their pinned order. Callers hold
// s.mu.
func (s *Session) step() {
	s.tick++
	s.frame++
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseMovement)
	views := s.buildViews()
	s.movementPass(views)

	s.perf.StartPhase(telemetry.PhaseEnergy)
	s.energyPass()

	s.perf.StartPhase(telemetry.PhaseInteraction)
	s.interactionPass(views)

	s.perf.StartPhase(telemetry.PhaseLifecycle)
	s.reproductionPass()
	s.deathPass()

	s.perf.StartPhase(telemetry.PhaseParticles)
	s.particles.EmitAmbient(s.rng, s.env.Width, s.env.Height, s.env.Biome, s.noise, s.frame)
	s.particles.Update()

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	if s.collector.ShouldFlush(s.tick) {
		s.flushTelemetry()
	}
	s.perf.EndTick()
}

// buildViews captures the per-tick registry snapshot in iteration order.
// That order decides nearest-ties and who-moves-first, which is accepted
// nondeterminism across insertions.
func (s *Session) buildViews() []systems.View {
	views := make([]systems.View, 0, s.alive)
	query := s.filter.Query()
	for query.Next() {
		ident, tax, pos, mot, vit, vis := query.Get()
		views = append(views, systems.View{
			Entity:   query.Entity(),
			ID:       ident.ID,
			Species:  ident.Species,
			Type:     tax.Type,
			Behavior: tax.Behavior,
			Flocking: tax.Behavior.Flocking(),
			X:        pos.X,
			Y:        pos.Y,
			Heading:  mot.Heading,
			Speed:    mot.Speed,
			Size:     vit.Size,
			Energy:   vit.Energy,
			Seed:     vis.Seed,
		})
	}
	return views
}

// movementPass advances animation phases and integrates positions. Views
// are updated in place as organisms move, so later organisms steer against
// the already-moved positions of earlier ones.
func (s *Session) movementPass(views []systems.View) {
	cfg := config.Cfg()

	for i := range views {
		v := &views[i]
		vis := s.visMap.Get(v.Entity)
		vis.Phase += cfg.Movement.PhaseRate

		tax := s.taxMap.Get(v.Entity)
		if tax.Type == components.TypePlant || tax.Locomotion == components.LocomotionSessile {
			continue
		}

		mot := s.motMap.Get(v.Entity)
		pos := s.posMap.Get(v.Entity)
		vit := s.vitMap.Get(v.Entity)

		dx, dy := systems.Steer(v, views, s.tick, s.rng, mot)
		mods := systems.LocomotionModifiers(tax.Locomotion)
		dx *= mods.SpeedMult
		dy *= mods.SpeedMult
		if dx != 0 || dy != 0 {
			mot.Heading = geom.Heading(dx, dy)
		}
		moved := dx != 0 || dy != 0

		dy += s.env.Gravity * mods.GravitySens * cfg.Movement.GravityPull

		ox, oy := systems.Oscillation(tax.Locomotion, s.frame, vis.Phase)
		nx := pos.X + dx + ox
		ny := pos.Y + dy + oy

		pad := vit.Size / 2
		cx := geom.Clamp(nx, pad, s.env.Width-pad)
		cy := geom.Clamp(ny, pad, s.env.Height-pad)
		if (cx != nx || cy != ny) && mot.Speed < 0 {
			// At a wall the original only forces speed positive instead of
			// reflecting the heading, so organisms may slide along an edge
			// until their policy turns them.
			mot.Speed = -mot.Speed
		}
		pos.X, pos.Y = cx, cy

		v.X, v.Y, v.Heading = cx, cy, mot.Heading

		if moved {
			s.particles.EmitMovement(s.rng, pos.X, pos.Y, vit.Size, tax.Locomotion)
		}
	}
}

// energyPass applies the per-tick energy economy and aging.
func (s *Session) energyPass() {
	ecfg := config.Cfg().Energy
	query := s.filter.Query()
	for query.Next() {
		_, tax, _, _, vit, _ := query.Get()
		if tax.Type == components.TypePlant {
			vit.Energy = geom.Clamp(vit.Energy+ecfg.Photosynthesis, 0, 100)
		} else {
			vit.Energy = geom.Clamp(vit.Energy-ecfg.Decay, 0, 100)
		}
		vit.Age++
	}
}

// interactionPass scans all unordered pairs of the post-movement snapshot
// and applies the first matching contact rule per pair.
func (s *Session) interactionPass(views []systems.View) {
	pcfg := config.Cfg().Particles
	for i := 0; i < len(views); i++ {
		for j := i + 1; j < len(views); j++ {
			a, b := &views[i], &views[j]
			if !systems.InContact(a, b) {
				continue
			}
			kind, aEats := systems.Classify(a, b)
			switch kind {
			case systems.ContactNone:
			case systems.ContactSocial:
				systems.ApplySocial(s.vitMap.Get(a.Entity), s.vitMap.Get(b.Entity))
				s.collector.RecordSocial()
			default:
				eater, victim := a, b
				if !aEats {
					eater, victim = b, a
				}
				systems.ApplyFeeding(kind, s.vitMap.Get(eater.Entity), s.vitMap.Get(victim.Entity), victim.Type)
				mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
				s.particles.EmitBurst(s.rng, mx, my, pcfg.InteractionBurst, "#ff8c5a", systems.ParticleInteraction)
				if kind == systems.ContactPredation {
					s.collector.RecordPredation()
				} else {
					s.collector.RecordGraze()
				}
			}
		}
	}
}

// reproductionPass queues offspring for energetic parents and applies the
// births after the scan, each a jittered shallow copy of its parent.
func (s *Session) reproductionPass() {
	ecfg := config.Cfg().Energy
	pcfg := config.Cfg().Particles
	popCap := config.Cfg().Spawn.PopulationCap

	var births []SpawnSpec
	query := s.filter.Query()
	for query.Next() {
		ident, tax, pos, mot, vit, vis := query.Get()
		if vit.Energy <= ecfg.ReproThreshold {
			continue
		}
		if s.alive+len(births) >= popCap {
			continue
		}
		if s.rng.Float64() >= vit.ReproRate*ecfg.ReproChance {
			continue
		}

		spread := ecfg.SpawnSpread * vit.Size
		jitter := func() float64 { return 1 + (s.rng.Float64()*2-1)*ecfg.OffspringJitter }
		births = append(births, SpawnSpec{
			Name:       ident.Name,
			Species:    ident.Species,
			Generation: ident.Generation + 1,
			Ancestry:   append(append([]string(nil), ident.Ancestry...), ident.Name),

			Type:       tax.Type,
			Diet:       tax.Diet,
			Behavior:   tax.Behavior,
			Locomotion: tax.Locomotion,

			X:           pos.X + (s.rng.Float64()*2-1)*spread,
			Y:           pos.Y + (s.rng.Float64()*2-1)*spread,
			HasPosition: true,
			Heading:     mot.Heading,
			HasHeading:  true,

			Speed:     mot.Speed * jitter(),
			Size:      vit.Size * jitter(),
			Energy:    ecfg.OffspringEnergy,
			MaxAge:    vit.MaxAge,
			ReproRate: vit.ReproRate,
			Color:     vis.Color,
			Accent:    vis.Accent,
		})
		vit.Energy = geom.Clamp(vit.Energy-ecfg.ReproCost, 0, 100)
		s.collector.RecordBirth()
	}

	for _, child := range births {
		entity := s.spawn(child)
		pos := s.posMap.Get(entity)
		vis := s.visMap.Get(entity)
		s.particles.EmitBurst(s.rng, pos.X, pos.Y, pcfg.BirthBurst, vis.Color, systems.ParticleBirth)
	}
}

// deathPass removes organisms whose energy or age invariant is violated,
// in the same tick the violation occurred.
func (s *Session) deathPass() {
	pcfg := config.Cfg().Particles

	type dead struct {
		entity ecs.Entity
		x, y   float64
		color  string
	}
	var toRemove []dead

	query := s.filter.Query()
	for query.Next() {
		_, _, pos, _, vit, vis := query.Get()
		if vit.Energy <= 0 || vit.Age >= vit.MaxAge {
			toRemove = append(toRemove, dead{query.Entity(), pos.X, pos.Y, vis.Color})
		}
	}

	for _, d := range toRemove {
		s.particles.EmitBurst(s.rng, d.x, d.y, pcfg.DeathBurst, d.color, systems.ParticleDeath)
		s.mapper.Remove(d.entity)
		s.alive--
		s.collector.RecordDeath()
	}
}

// flushTelemetry closes the current stats window.
func (s *Session) flushTelemetry() {
	var census telemetry.Census
	energies := make([]float64, 0, s.alive)
	ages := make([]float64, 0, s.alive)

	query := s.filter.Query()
	for query.Next() {
		_, tax, _, _, vit, _ := query.Get()
		switch tax.Type {
		case components.TypePlant:
			census.Plants++
		case components.TypeHerbivore:
			census.Herbivores++
		case components.TypeCarnivore:
			census.Carnivores++
		case components.TypeOmnivore:
			census.Omnivores++
		case components.TypeDecomposer:
			census.Decomposers++
		case components.TypeMicrobe:
			census.Microbes++
		}
		energies = append(energies, vit.Energy)
		ages = append(ages, float64(vit.Age))
	}

	stats := s.collector.Flush(s.tick, census, energies, ages)
	s.windows = append(s.windows, stats)
	stats.LogStats()
	if err := s.out.WriteStats(stats); err != nil {
		slog.Warn("telemetry write failed", "error", err)
	}
	if err := s.out.WritePerf(s.perf.Stats(), s.tick); err != nil {
		slog.Warn("perf write failed", "error", err)
	}
}
