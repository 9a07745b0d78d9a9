// Package tax contains the Tax Rating bounded context.
// This context turns an in-progress order into a tax amount by delegating the
// computation to an external rating provider.
//
// Key concepts:
//   - OrderContext: shipping and charge fields read from the host order record
//   - RatingRequest: immutable single-address, single-line request built by BuildRatingRequest
//   - RatingResult: provider response carrying an optional total tax
//   - RatingClient: port to the external rating provider
//   - DiagnosticsSink: port for the per-invocation diagnostic trace
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package tax
