// Package dsl is the fluent front end for describing data shapes. Each entry
// point returns a kind-specific builder; constraint methods exist only on the
// builder whose kind they apply to, so misuse is a compile error. Every chain
// call is copy-on-write: the receiver is never mutated, and a partially-built
// builder can safely seed multiple diverging chains.
package dsl
