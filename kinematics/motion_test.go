package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunDurationAccelCruiseDecel(t *testing.T) {
	p := Profile{Accel: 1, Decel: -2, RelMaxSpeed: 1}
	got := p.RunDuration(1000, 10, 0, 0)
	// accel 0->10 m/s at 1 m/s^2: 10s, 50m.
	// decel 10->0 m/s at -2 m/s^2: 5s, 25m.
	// cruise: 925m at 10 m/s = 92.5s.
	// total = 10 + 5 + 92.5 = 107.5s
	assert.InDelta(t, 107.5, got, 1e-6)
}

func TestRunDurationUncappedPeakWithNonzeroEntrySpeed(t *testing.T) {
	// a=1, b=-2, v0=4, v1=0, d=67: true peak is 10 (accelDist 4->10 at
	// a=1 is 42m, brakeDist 10->0 at b=-2 is 25m, 42+25=67, no cruise).
	p := Profile{Accel: 1, Decel: -2, RelMaxSpeed: 1}
	got := p.RunDuration(67, 100, 4, 0)
	// accel 4->10 m/s at 1 m/s^2: 6s. brake 10->0 m/s at -2 m/s^2: 5s.
	assert.InDelta(t, 11, got, 1e-6)
}

func TestRunDurationZeroDistance(t *testing.T) {
	p := Profile{Accel: 1, Decel: -1, RelMaxSpeed: 1}
	assert.Equal(t, 0.0, p.RunDuration(0, 10, 0, 0))
}

func TestRunDurationShortDistanceCapsPeakBelowVMax(t *testing.T) {
	p := Profile{Accel: 1, Decel: -1, RelMaxSpeed: 1}
	// too short to reach vMax=10: peak is below it, no cruise phase.
	d := p.RunDuration(10, 10, 0, 0)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, p.RunDuration(1000, 10, 0, 0))
}

func TestBrakeDistanceMatchesSpecFormula(t *testing.T) {
	p := Profile{Accel: 1, Decel: -1, RelMaxSpeed: 1}
	// brake_distance(v0, v1) = (v0+v1)/2 * (v1-v0)/b
	got := p.BrakeDistance(20, 0)
	want := (20.0 + 0.0) / 2 * (0.0 - 20.0) / -1
	assert.InDelta(t, want, got, 1e-9)
	assert.InDelta(t, 200, got, 1e-9)
}

func TestMaxEntrySpeedAlwaysReal(t *testing.T) {
	p := Profile{Accel: 1, Decel: -1, RelMaxSpeed: 1}
	got := p.MaxEntrySpeed(100, 0)
	assert.False(t, math.IsNaN(got))
	assert.Greater(t, got, 0.0)
}

func TestMinExitSpeedClampsAtZero(t *testing.T) {
	p := Profile{Accel: 1, Decel: -1, RelMaxSpeed: 1}
	got := p.MinExitSpeed(1000, 5) // stops within 12.5m of 1000m: v0^2+2bd < 0, clamped
	assert.GreaterOrEqual(t, got, 0.0)
}
