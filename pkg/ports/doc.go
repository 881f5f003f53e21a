/*
Package ports defines the driven ports (interfaces) of the checkout core.

These interfaces decouple the flow controller from external implementations,
allowing it to work with various storage backends, submission endpoints and
locking strategies.

# Key Interfaces

  - FlowController: The step machine hosts drive with input, blur and navigation events.
  - Submitter: Hands the submission record to the external endpoint.
  - StateStore: Persists a FormSession between requests of the same checkout.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
