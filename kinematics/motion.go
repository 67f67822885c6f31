// Package kinematics implements the moving-block equations of motion:
// given an entry/exit speed pair and a distance, how long a train with
// a fixed acceleration and deceleration takes to traverse it.
package kinematics

import "math"

// Profile holds the per-train constants that parameterise every
// kinematic computation: acceleration (> 0), deceleration (< 0), and
// the fraction of a track's max speed this train is allowed to use.
type Profile struct {
	Accel       float64 // m/s^2, > 0
	Decel       float64 // m/s^2, < 0
	RelMaxSpeed float64 // (0, 1]
}

// AccelerationDistance returns the distance covered accelerating from
// v0 to v1 (v1 >= v0) under p.Accel.
func (p Profile) AccelerationDistance(v1, v0 float64) float64 {
	return (v1 + v0) / 2 * (v1 - v0) / p.Accel
}

// BrakeDistance returns the distance covered braking from v0 to v1
// (v1 <= v0) under p.Decel.
func (p Profile) BrakeDistance(v0, v1 float64) float64 {
	return (v0 + v1) / 2 * (v1 - v0) / p.Decel
}

// MaxExitSpeed returns the fastest speed reachable after accelerating
// across distance d starting from v0.
func (p Profile) MaxExitSpeed(d, v0 float64) float64 {
	return math.Sqrt(v0*v0 + 2*p.Accel*d)
}

// MaxEntrySpeed returns the fastest entry speed from which the train
// can still brake to v1 within distance d. Always real since
// p.Decel < 0.
func (p Profile) MaxEntrySpeed(d, v1 float64) float64 {
	return math.Sqrt(v1*v1 - 2*p.Decel*d)
}

// MinExitSpeed returns the slowest speed the train can be going after
// braking across distance d starting from v0 (clamped to 0).
func (p Profile) MinExitSpeed(d, v0 float64) float64 {
	v2 := v0*v0 + 2*p.Decel*d
	if v2 < 0 {
		v2 = 0
	}
	return math.Sqrt(v2)
}

// RunDuration computes the time to cross distance d starting at v0
// and ending at v1, accelerating then (optionally) cruising then
// braking, with the peak speed capped at vMax. The switching point is
// where an uncapped accelerate-then-decelerate profile would peak;
// if that peak exceeds vMax, the profile instead accelerates to vMax,
// cruises, then brakes.
func (p Profile) RunDuration(d, vMax, v0, v1 float64) float64 {
	if d <= 0 {
		return 0
	}

	// distance to accelerate from v0 to the peak the accel/decel
	// profile reaches before having to start braking to reach v1,
	// derived from: accelDist(peak) + brakeDist(peak) == d.
	// accelDist(peak) = (peak^2 - v0^2) / (2*Accel)
	// brakeDist(peak)  = (v1^2 - peak^2) / (2*Decel)
	// => peak^2 * (1/(2*Accel) - 1/(2*Decel)) = d + v0^2/(2*Accel) - v1^2/(2*Decel)
	coeff := 1/(2*p.Accel) - 1/(2*p.Decel)
	rhs := d + v0*v0/(2*p.Accel) - v1*v1/(2*p.Decel)
	peak := vMax
	if coeff > 0 {
		peakSq := rhs / coeff
		if peakSq > 0 {
			peak = math.Sqrt(peakSq)
		} else {
			peak = 0
		}
	}
	if peak > vMax {
		peak = vMax
	}
	if peak < v0 {
		peak = v0
	}
	if peak < v1 {
		peak = v1
	}

	accelDist := p.AccelerationDistance(peak, v0)
	brakeDist := p.BrakeDistance(peak, v1)
	if accelDist < 0 {
		accelDist = 0
	}
	if brakeDist < 0 {
		brakeDist = 0
	}
	cruiseDist := d - accelDist - brakeDist
	if cruiseDist < 0 {
		// accel/brake distances alone already exceed d: scale down
		// proportionally rather than overshoot (can happen at the
		// vMax cap boundary due to floating point).
		total := accelDist + brakeDist
		if total > 0 {
			scale := d / total
			accelDist *= scale
			brakeDist *= scale
		}
		cruiseDist = 0
	}

	accelTime := 0.0
	if peak > v0 {
		accelTime = (peak - v0) / p.Accel
	}
	brakeTime := 0.0
	if peak > v1 {
		brakeTime = (v1 - peak) / p.Decel
	}
	cruiseTime := 0.0
	if peak > 0 {
		cruiseTime = cruiseDist / peak
	}
	return accelTime + cruiseTime + brakeTime
}
