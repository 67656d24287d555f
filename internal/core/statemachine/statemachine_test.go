package statemachine

import (
	"testing"

	"tefa-hub/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_AllowedPaths(t *testing.T) {
	tests := []struct {
		name  string
		from  domain.OrderStatus
		to    domain.OrderStatus
		actor Actor
	}{
		{"teacher approves pending", domain.StatusPending, domain.StatusOpen, ActorTeacher},
		{"teacher rejects pending", domain.StatusPending, domain.StatusRejected, ActorTeacher},
		{"student claims open", domain.StatusOpen, domain.StatusInProgress, ActorStudent},
		{"student submits for review", domain.StatusInProgress, domain.StatusReview, ActorStudent},
		{"requester asks revision", domain.StatusReview, domain.StatusInProgress, ActorRequester},
		{"requester accepts", domain.StatusReview, domain.StatusCompleted, ActorRequester},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, CanTransition(tt.from, tt.to, tt.actor))
		})
	}
}

func TestCanTransition_SkippingStatesRejectedForEveryActor(t *testing.T) {
	actors := []Actor{ActorTeacher, ActorStudent, ActorRequester}
	for _, actor := range actors {
		err := CanTransition(domain.StatusPending, domain.StatusCompleted, actor)
		assert.ErrorIs(t, err, ErrInvalidTransition, "actor %s must not skip to completed", actor)
	}
}

func TestCanTransition_WrongActor(t *testing.T) {
	// Verification belongs to the teacher alone.
	assert.ErrorIs(t, CanTransition(domain.StatusPending, domain.StatusOpen, ActorStudent), ErrInvalidTransition)
	assert.ErrorIs(t, CanTransition(domain.StatusPending, domain.StatusOpen, ActorRequester), ErrInvalidTransition)
	// Claiming belongs to students alone.
	assert.ErrorIs(t, CanTransition(domain.StatusOpen, domain.StatusInProgress, ActorTeacher), ErrInvalidTransition)
	// Review decisions belong to the requester alone.
	assert.ErrorIs(t, CanTransition(domain.StatusReview, domain.StatusCompleted, ActorStudent), ErrInvalidTransition)
	assert.ErrorIs(t, CanTransition(domain.StatusReview, domain.StatusInProgress, ActorTeacher), ErrInvalidTransition)
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	assert.Empty(t, ValidTransitionsFrom(domain.StatusRejected))
	assert.Empty(t, ValidTransitionsFrom(domain.StatusCompleted))
	assert.True(t, domain.StatusRejected.IsTerminal())
	assert.True(t, domain.StatusCompleted.IsTerminal())
}

func TestValidTransitionsFrom(t *testing.T) {
	assert.ElementsMatch(t,
		[]domain.OrderStatus{domain.StatusOpen, domain.StatusRejected},
		ValidTransitionsFrom(domain.StatusPending))
	assert.ElementsMatch(t,
		[]domain.OrderStatus{domain.StatusInProgress, domain.StatusCompleted},
		ValidTransitionsFrom(domain.StatusReview))
}

func TestGetAllTransitions(t *testing.T) {
	all := GetAllTransitions()
	assert.Len(t, all, 6)
}
