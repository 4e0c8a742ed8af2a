// Package shell contains the infrastructure glue for the example:
// Order fulfillment in a small web shop.
//
// It converts between the serialized events a feed delivers (StorableEvent)
// and the domain events the projections are composed over, and carries the
// event metadata (message, causation and correlation IDs) alongside.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' or 'adapter' layer.
package shell
