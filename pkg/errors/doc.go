// Package errors defines sentinel errors shared across the relay.
package errors
