// Package telemetry aggregates per-window simulation statistics, writes
// them as CSV, and serializes full state snapshots for export.
package telemetry

// Collector accumulates lifecycle and interaction events within tick
// windows and produces WindowStats when a window closes.
type Collector struct {
	windowTicks int
	windowStart int

	births     int
	deaths     int
	predations int
	grazes     int
	socials    int
}

// NewCollector creates a collector with the given window length in ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordBirth counts one reproduction event.
func (c *Collector) RecordBirth() { c.births++ }

// RecordDeath counts one organism removal.
func (c *Collector) RecordDeath() { c.deaths++ }

// RecordPredation counts one resolved predation contact.
func (c *Collector) RecordPredation() { c.predations++ }

// RecordGraze counts one resolved grazing contact.
func (c *Collector) RecordGraze() { c.grazes++ }

// RecordSocial counts one same-species proximity trickle.
func (c *Collector) RecordSocial() { c.socials++ }

// ShouldFlush reports whether the current window has elapsed.
func (c *Collector) ShouldFlush(tick int) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush produces the stats for the closing window and resets the event
// counters. The caller samples census, energies, and ages at the flush tick.
func (c *Collector) Flush(tick int, census Census, energies, ages []float64) WindowStats {
	eMean, eStd, eP10, eP50, eP90 := Summarize(energies)
	aMean, _, _, aP50, _ := Summarize(ages)
	var aMax float64
	for _, a := range ages {
		if a > aMax {
			aMax = a
		}
	}

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   tick,

		Population:  census.Total(),
		Plants:      census.Plants,
		Herbivores:  census.Herbivores,
		Carnivores:  census.Carnivores,
		Omnivores:   census.Omnivores,
		Decomposers: census.Decomposers,
		Microbes:    census.Microbes,

		Births:     c.births,
		Deaths:     c.deaths,
		Predations: c.predations,
		Grazes:     c.grazes,
		Socials:    c.socials,

		EnergyMean: eMean,
		EnergyStd:  eStd,
		EnergyP10:  eP10,
		EnergyP50:  eP50,
		EnergyP90:  eP90,
		AgeMean:    aMean,
		AgeP50:     aP50,
		AgeMax:     aMax,
	}

	c.windowStart = tick
	c.births = 0
	c.deaths = 0
	c.predations = 0
	c.grazes = 0
	c.socials = 0

	return stats
}

// WindowTicks returns the window length in ticks.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
