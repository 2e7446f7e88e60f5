package quests

import (
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/models"
)

// Transition legality and authorization, separated from storage so the rules
// are checkable without a database. Accept is the exception: its check runs
// inside a single conditional UPDATE, and CanAccept only classifies why that
// update matched nothing.

func CanAccept(q *models.Quest, callerID string) error {
	if q.RequesterID == callerID {
		return apperr.Authorization("you cannot accept your own request")
	}
	if q.Status != models.StatusOpen {
		return apperr.StateConflict("this request has already been accepted")
	}
	return nil
}

func CanCancel(q *models.Quest, callerID string) error {
	if !q.IsParty(callerID) {
		return apperr.Authorization("not authorized to cancel this quest")
	}
	if q.Status != models.StatusAccepted {
		return apperr.StateConflict("only an accepted quest can be canceled")
	}
	return nil
}

func CanComplete(q *models.Quest, callerID string) error {
	if q.RequesterID != callerID {
		return apperr.Authorization("not authorized to complete this quest")
	}
	if q.Status != models.StatusAccepted {
		return apperr.StateConflict("only an accepted quest can be completed")
	}
	return nil
}

func CanDelete(q *models.Quest, callerID string) error {
	if q.RequesterID != callerID {
		return apperr.Authorization("not authorized to delete this quest")
	}
	if q.Status != models.StatusOpen {
		return apperr.StateConflict("cannot delete a request that has been accepted")
	}
	return nil
}

// Ratee resolves who receives the rating: always the counterparty of the
// rater, and only once the quest is completed.
func Ratee(q *models.Quest, raterID string) (string, error) {
	if q.Status != models.StatusCompleted {
		return "", apperr.StateConflict("quest must be completed before rating")
	}
	target, ok := q.Counterpart(raterID)
	if !ok {
		return "", apperr.Authorization("not authorized to rate this user")
	}
	return target, nil
}

// CanReveal gates contact disclosure to parties of an accepted quest.
func CanReveal(q *models.Quest, callerID string) error {
	if !q.IsParty(callerID) {
		return apperr.Authorization("not authorized to view this information")
	}
	if q.Status != models.StatusAccepted {
		return apperr.StateConflict("contact info is only available for active, accepted quests")
	}
	return nil
}
