package statemachine

import (
	"errors"
	"strings"

	"dog-sitter-api/models"
)

// Actors that may drive a transition
const (
	ActorClient = "client"
	ActorSitter = "sitter"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.BookingStatus `json:"from"`
	To    models.BookingStatus `json:"to"`
	Actor string               `json:"actor"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Sitter accepts the request
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorSitter},
	// Sitter marks the stay as done
	{From: models.StatusConfirmed, To: models.StatusCompleted, Actor: ActorSitter},
	// Client may cancel until the booking is completed
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorClient},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorClient},
}

// guardMessages explain a rejected move into each target state
var guardMessages = map[models.BookingStatus]string{
	models.StatusConfirmed: "only pending bookings can be confirmed",
	models.StatusCompleted: "only confirmed bookings can be completed",
	models.StatusCancelled: "only pending or confirmed bookings can be cancelled",
}

// ErrInvalidTransition is wrapped by every error CanTransition returns
var ErrInvalidTransition = errors.New("invalid transition")

type transitionKey struct {
	From  models.BookingStatus
	To    models.BookingStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// TransitionError describes a rejected transition
type TransitionError struct {
	From  models.BookingStatus
	To    models.BookingStatus
	Actor string
}

func (e *TransitionError) Error() string {
	return "invalid transition: " + string(e.From) + " → " + string(e.To) +
		" is not allowed for actor '" + e.Actor + "'. " +
		"Valid transitions from " + string(e.From) + " are: " + describeValidFrom(e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// GuardMessage is the short user-facing reason for the rejection
func (e *TransitionError) GuardMessage() string {
	if msg, ok := guardMessages[e.To]; ok {
		return msg
	}
	return "invalid booking status transition"
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.BookingStatus) []models.BookingStatus {
	var nexts []models.BookingStatus
	seen := map[models.BookingStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves status
func IsTerminal(status models.BookingStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.BookingStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return &TransitionError{From: from, To: to, Actor: actor}
}

func describeValidFrom(status models.BookingStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}

// TerminalStates lists states with no outgoing transitions
func TerminalStates() []models.BookingStatus {
	var out []models.BookingStatus
	for _, s := range models.AllStatuses {
		if IsTerminal(s) {
			out = append(out, s)
		}
	}
	return out
}
