// Package producer generates sequenced log traffic from concurrent
// goroutines and checks a delivered log for per-producer ordering.
package producer
