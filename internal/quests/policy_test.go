package quests

import (
	"testing"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/models"
)

func quest(status string, requester string, runner string) *models.Quest {
	q := &models.Quest{ID: "q1", RequesterID: requester, Status: status}
	if runner != "" {
		q.RunnerID = &runner
	}
	return q
}

func wantKind(t *testing.T, err error, k apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apperr.IsKind(err, k) {
		t.Fatalf("wrong kind for %v", err)
	}
}

func TestCanAccept(t *testing.T) {
	if err := CanAccept(quest(models.StatusOpen, "u1", ""), "u2"); err != nil {
		t.Fatalf("open quest, other user: %v", err)
	}
	wantKind(t, CanAccept(quest(models.StatusOpen, "u1", ""), "u1"), apperr.KindAuthorization)
	wantKind(t, CanAccept(quest(models.StatusAccepted, "u1", "u2"), "u3"), apperr.KindStateConflict)
}

func TestCanCancel(t *testing.T) {
	q := quest(models.StatusAccepted, "u1", "u2")
	if err := CanCancel(q, "u1"); err != nil {
		t.Fatalf("requester: %v", err)
	}
	if err := CanCancel(q, "u2"); err != nil {
		t.Fatalf("runner: %v", err)
	}
	wantKind(t, CanCancel(q, "u3"), apperr.KindAuthorization)
	wantKind(t, CanCancel(quest(models.StatusOpen, "u1", ""), "u1"), apperr.KindStateConflict)
	wantKind(t, CanCancel(quest(models.StatusCompleted, "u1", "u2"), "u1"), apperr.KindStateConflict)
}

func TestCanComplete(t *testing.T) {
	q := quest(models.StatusAccepted, "u1", "u2")
	if err := CanComplete(q, "u1"); err != nil {
		t.Fatalf("requester: %v", err)
	}
	wantKind(t, CanComplete(q, "u2"), apperr.KindAuthorization)
	wantKind(t, CanComplete(quest(models.StatusOpen, "u1", ""), "u1"), apperr.KindStateConflict)
}

func TestCanDelete(t *testing.T) {
	if err := CanDelete(quest(models.StatusOpen, "u1", ""), "u1"); err != nil {
		t.Fatalf("owner of open quest: %v", err)
	}
	wantKind(t, CanDelete(quest(models.StatusOpen, "u1", ""), "u2"), apperr.KindAuthorization)
	wantKind(t, CanDelete(quest(models.StatusAccepted, "u1", "u2"), "u1"), apperr.KindStateConflict)
}

func TestRatee(t *testing.T) {
	q := quest(models.StatusCompleted, "u1", "u2")
	target, err := Ratee(q, "u1")
	if err != nil || target != "u2" {
		t.Fatalf("requester rates runner: %q %v", target, err)
	}
	target, err = Ratee(q, "u2")
	if err != nil || target != "u1" {
		t.Fatalf("runner rates requester: %q %v", target, err)
	}
	if _, err := Ratee(q, "u3"); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("outsider: %v", err)
	}
	if _, err := Ratee(quest(models.StatusAccepted, "u1", "u2"), "u1"); !apperr.IsKind(err, apperr.KindStateConflict) {
		t.Fatalf("not completed: %v", err)
	}
}

func TestCanReveal(t *testing.T) {
	accepted := quest(models.StatusAccepted, "u1", "u2")
	if err := CanReveal(accepted, "u1"); err != nil {
		t.Fatalf("requester on accepted: %v", err)
	}
	if err := CanReveal(accepted, "u2"); err != nil {
		t.Fatalf("runner on accepted: %v", err)
	}
	wantKind(t, CanReveal(accepted, "u3"), apperr.KindAuthorization)
	wantKind(t, CanReveal(quest(models.StatusOpen, "u1", ""), "u1"), apperr.KindStateConflict)
	wantKind(t, CanReveal(quest(models.StatusCompleted, "u1", "u2"), "u2"), apperr.KindStateConflict)
	// an outsider on a non-accepted quest is denied, not told about state
	wantKind(t, CanReveal(quest(models.StatusCompleted, "u1", "u2"), "u3"), apperr.KindAuthorization)
}

func TestCounterpartInvariant(t *testing.T) {
	open := quest(models.StatusOpen, "u1", "")
	if _, ok := open.Counterpart("u1"); ok {
		t.Fatal("open quest has no counterpart for the requester")
	}
	if open.IsParty("u2") {
		t.Fatal("stranger is not a party")
	}
}
