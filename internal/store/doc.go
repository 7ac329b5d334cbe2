// Package store persists the pattern library: named pattern definition
// documents and actuator layout snapshots, in a single SQLite file.
//
// Names are NFC-normalized and case-folded before use as keys, so "Träne"
// saved from two editors with different Unicode compositions is one
// pattern, not two.
package store
