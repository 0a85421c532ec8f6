// Package qdmat implements sparse-matrix multiplication over a
// user-supplied semiring via a recursive quadtree block decomposition with
// typed leaf indices and sparse accumulators.
//
// A Matrix is a single-root quadtree of immutable, column-compressed
// (DCSC) leaves. Multiply recursively splits a pair of operand matrices by
// quadrant, shadow-subdividing a leaf that sits opposite an inner block so
// the recursion never copies data, down to pairs of pure leaves; those are
// multiplied column by column through a Sparse Accumulator and merged back
// up through a DCSC accumulator.
//
// File-format I/O, CLI wiring, and logging are external collaborators
// (package mtxio and cmd/qdmat); they are not part of the multiplication
// core and are swappable without touching it.
package qdmat
