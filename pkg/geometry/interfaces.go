package geometry

// Epsilon is the minimum ray parameter accepted as a hit. Rays spawned from a
// surface (shadow rays) would otherwise re-hit that surface at t ~ 0.
const Epsilon = 1e-4

// parallelThreshold is the smallest |direction . normal| for which a plane hit
// is computed; anything smaller is treated as parallel
const parallelThreshold = 0.01
