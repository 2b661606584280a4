// Package queue provides the message channel shared between log producers
// and the single background writer.
//
// All state (pending messages and the shutdown flag) is guarded by one
// mutex, and the writer parks on a condition variable bound to it. The wake
// predicate "non-empty or shutdown requested" is therefore always evaluated
// under the same lock that Push and RequestShutdown take, which rules out
// lost wakeups.
package queue
