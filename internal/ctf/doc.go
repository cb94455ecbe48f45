// Package ctf is the resolved trace model: a Trace owns a sparse table of
// Streams, each Stream owns a sparse table of Events. Every level owns a
// pair of scopes chained to its parent's and a set of presence bits for
// its attributes.
//
// Containers are owned exclusively. Release tears a container down together
// with everything it registered; types and declarations inside are
// reference counted and survive only while something else still holds them.
package ctf
