// Package domain holds the board aggregate and the pure rules of the
// squares game: coordinates, claims, digit permutations, scores, and
// winner evaluation. Nothing in this package touches storage.
package domain
