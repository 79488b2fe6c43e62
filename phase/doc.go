// Package phase splits complex spectrograms into magnitude and phase and
// recombines them.
//
// The magnitude may be raised to any positive power; power 2 gives the power
// spectrum used by the energy based features. Recompose is the exact inverse
// of Decompose for the same power, which lets the synthesis transform
// reconstruct waveforms directly from (power, phase) pairs without iterative
// phase estimation.
package phase
