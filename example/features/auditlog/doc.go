// Package auditlog implements the Audit Log.
//
// The audit log records every event delivered to the processor, including
// UnknownEventObserved stand-ins for event types this service does not
// recognize. It is built on a catch-all handler, defined for any event, and
// is meant to run after the business projections via AndThen so nothing is
// recorded for events that failed to project.
package auditlog
