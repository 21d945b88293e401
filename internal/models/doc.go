// Package models defines the core domain models for event bookings.
//
// # Events and their lines
//
// An Event owns a set of ServiceLines and Payments. A ServiceLine instantiates a
// catalog Service for one event and takes exactly one of four shapes:
//   - standalone: priced on its own
//   - package main item: the priced, named head of a bundle
//   - package child: a bundled service pointing at its package main item
//   - legacy package member: the pre-refactor flat bundle where every member
//     repeats the package price and is grouped by a shared package key
//
// ServiceLine.Kind is the single place that decides which shape a line has.
//
// # Identifiers
//
// Lines created in a working session have no persisted id yet. LineID carries an
// explicit placeholder flag so callers never need to inspect id strings; the
// textual "temp_" prefix only exists in the JSON form.
//
// # Money
//
// Monetary fields use Amount, which decodes numbers, numeric strings, null and
// malformed values (as zero) without failing.
package models
