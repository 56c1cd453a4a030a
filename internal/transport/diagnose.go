package transport

import (
	"errors"
	"syscall"
)

// Category is a human-readable diagnosis of a network-level send failure.
type Category string

const (
	CategoryNetworkUnreachable Category = "network-unreachable"
	CategoryHostUnreachable    Category = "host-unreachable"
	CategoryRefused            Category = "connection-refused"
	CategoryOther              Category = "other"
)

// Diagnose classifies a UDP send error. UDP has no connections, but the OS
// still reports ICMP-derived conditions through the send path.
func Diagnose(err error) Category {
	switch {
	case errors.Is(err, syscall.ENETUNREACH):
		return CategoryNetworkUnreachable
	case errors.Is(err, syscall.EHOSTUNREACH):
		return CategoryHostUnreachable
	case errors.Is(err, syscall.ECONNREFUSED):
		return CategoryRefused
	default:
		return CategoryOther
	}
}

// Remedy returns an operator-facing hint for the failure category.
func (c Category) Remedy() string {
	switch c {
	case CategoryNetworkUnreachable:
		return "the destination network is not routable from this machine; check OSC_DEST_HOST and local network configuration"
	case CategoryHostUnreachable:
		return "the destination host did not respond; check that the visuals engine machine is up and reachable"
	case CategoryRefused:
		return "nothing is listening on the destination port; check OSC_DEST_PORT and that the visuals engine is running"
	default:
		return "check the relay's network configuration and the destination address"
	}
}
