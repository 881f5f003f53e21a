/*
Package session implements session management and persistence orchestration.

It keeps checkouts in a ports.StateStore between requests and serializes
every read-modify-write of a session, locally with reference-counted mutexes
and across replicas with an optional ports.DistributedLocker.
*/
package session
