// Package core contains domain events for the example:
// Order fulfillment in a small web shop.
//
// Events represent meaningful business occurrences like OrderPlaced and
// PaymentCaptured rather than generic create/update operations. All domain
// events implement the projection.DomainEvent interface with IsEventType()
// and HasOccurredAt() methods so projections can be composed over them.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
