package statemachine

import (
	"errors"
	"fmt"

	"tefa-hub/internal/core/domain"
)

// Actor names the party performing a transition. Requester is whoever
// owns the order (order.clientId), regardless of their account role.
type Actor string

const (
	ActorTeacher   Actor = "teacher"
	ActorStudent   Actor = "student"
	ActorRequester Actor = "requester"
)

// ErrInvalidTransition is wrapped by every rejection from CanTransition.
var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  domain.OrderStatus
	To    domain.OrderStatus
	Actor Actor
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Teacher verifies a submitted request
	{From: domain.StatusPending, To: domain.StatusOpen, Actor: ActorTeacher},
	{From: domain.StatusPending, To: domain.StatusRejected, Actor: ActorTeacher},
	// Student claims an approved order (team is set atomically with the claim)
	{From: domain.StatusOpen, To: domain.StatusInProgress, Actor: ActorStudent},
	// Student submits finished work for review
	{From: domain.StatusInProgress, To: domain.StatusReview, Actor: ActorStudent},
	// Requester sends work back for revision
	{From: domain.StatusReview, To: domain.StatusInProgress, Actor: ActorRequester},
	// Requester accepts and rates the work
	{From: domain.StatusReview, To: domain.StatusCompleted, Actor: ActorRequester},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  domain.OrderStatus
	To    domain.OrderStatus
	Actor Actor
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status domain.OrderStatus) []domain.OrderStatus {
	var nexts []domain.OrderStatus
	seen := map[domain.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another.
// It must be consulted before any mutation is persisted (fail closed).
func CanTransition(from, to domain.OrderStatus, actor Actor) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return fmt.Errorf("%w: %s → %s is not allowed for actor '%s' (valid from %s: %s)",
		ErrInvalidTransition, from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status domain.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
