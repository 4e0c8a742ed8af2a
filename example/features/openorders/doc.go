// Package openorders implements the Open Orders read model.
//
// The read model answers "which orders are placed but not yet shipped or
// canceled, and are they paid?" for the shop's back office. It is kept in a
// PostgreSQL table and maintained by a composed projection: one partial
// handler per event type, routed with OrElse since each event type concerns
// a different state transition.
//
// This feature only consumes events, it never produces any.
package openorders
