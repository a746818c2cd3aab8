// Package analysis measures periods from recorded swings.
//
//   - [DominantPeriod]: period of the strongest spectral line
//   - [CrossingPeriods]: periods from crossing timestamps
//   - [ExactPeriod]: large-amplitude period from the elliptic integral
//   - [AmplitudeSweep]: measured period against amplitude
//   - [GeneratePhasePortrait]: (θ, ω) trajectory of a pendulum
//
// # Spectral period
//
// Samples are mean-removed and Hann-windowed before the FFT; the peak bin is
// refined with a parabola through the log magnitudes of its neighbours:
//
//	period, err := analysis.DominantPeriod(angles, dt)
package analysis
