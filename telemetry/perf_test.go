package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorRecordsSamples(t *testing.T) {
	p := NewPerfCollector(10)

	for i := 0; i < 3; i++ {
		p.StartTick()
		p.StartPhase(PhaseMovement)
		time.Sleep(time.Millisecond)
		p.StartPhase(PhaseInteraction)
		time.Sleep(time.Millisecond)
		p.EndTick()
	}

	stats := p.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("average tick duration should be positive")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
	if stats.PhaseAvg[PhaseMovement] <= 0 {
		t.Error("movement phase should have recorded time")
	}
	if stats.PhaseAvg[PhaseInteraction] <= 0 {
		t.Error("interaction phase should have recorded time")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("throughput should be positive")
	}
}

func TestPerfCollectorEmptyWindow(t *testing.T) {
	p := NewPerfCollector(10)
	stats := p.Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("empty window should report zero durations")
	}
	if len(stats.PhaseAvg) != 0 {
		t.Error("empty window should report no phases")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	p := NewPerfCollector(2)
	for i := 0; i < 5; i++ {
		p.StartTick()
		p.StartPhase(PhaseMovement)
		p.EndTick()
	}
	// Only windowSize samples are retained.
	if p.sampleCount != 2 {
		t.Errorf("sample count = %d, want 2", p.sampleCount)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 500 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseMovement:  40,
			PhaseParticles: 10,
		},
	}
	row := stats.ToCSV(1200)
	if row.WindowEnd != 1200 {
		t.Errorf("window end = %d, want 1200", row.WindowEnd)
	}
	if row.AvgTickUS != 500 {
		t.Errorf("avg tick us = %d, want 500", row.AvgTickUS)
	}
	if row.MovementPct != 40 || row.ParticlesPct != 10 {
		t.Errorf("phase pcts = %v/%v, want 40/10", row.MovementPct, row.ParticlesPct)
	}
}
