package models

import "strings"

// Canonical order statuses, in lifecycle order.
const (
	StatusConfirmed      = "Confirmed"
	StatusPreparing      = "Preparing"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
)

// StatusSteps lists the recognized milestones in order.
var StatusSteps = []string{
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
}

// NormalizeStatus folds a backend status string onto the canonical
// vocabulary, case-insensitively. Unrecognized statuses pass through
// unchanged so callers can still display them.
func NormalizeStatus(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, step := range StatusSteps {
		if strings.EqualFold(trimmed, step) {
			return step
		}
	}
	return trimmed
}

// StatusIndex returns the milestone position of a status, or -1 if it
// is not one of the recognized milestones.
func StatusIndex(s string) int {
	normalized := NormalizeStatus(s)
	for i, step := range StatusSteps {
		if step == normalized {
			return i
		}
	}
	return -1
}

// IsTerminalStatus reports whether a status ends the tracking loop.
func IsTerminalStatus(s string) bool {
	return NormalizeStatus(s) == StatusDelivered
}
