package quests

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/crypto"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/models"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/ratings"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/store"
)

type Service struct {
	st     *store.Store
	cipher *crypto.FieldCipher
}

func NewService(st *store.Store, cipher *crypto.FieldCipher) *Service {
	return &Service{st: st, cipher: cipher}
}

type CreateInput struct {
	ItemsList        string  `json:"itemsList"`
	DeliveryLocation string  `json:"deliveryLocation"`
	EstimatedCost    float64 `json:"estimatedCost"`
	Tip              float64 `json:"tip"`
}

func (s *Service) Create(requesterID string, in CreateInput) (*models.Quest, error) {
	in.ItemsList = strings.TrimSpace(in.ItemsList)
	in.DeliveryLocation = strings.TrimSpace(in.DeliveryLocation)
	if in.ItemsList == "" || in.DeliveryLocation == "" {
		return nil, apperr.Validation("please provide all values")
	}
	if in.EstimatedCost < 0 || in.Tip < 0 {
		return nil, apperr.Validation("cost and tip must be non-negative")
	}
	var q models.Quest
	err := s.st.DB.QueryRowx(`INSERT INTO requests(requester_id, items_list, delivery_location, estimated_cost, tip)
		VALUES($1,$2,$3,$4,$5) RETURNING *`,
		requesterID, in.ItemsList, in.DeliveryLocation, in.EstimatedCost, in.Tip).StructScan(&q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	// The quest exists even if the counter bump fails; log, don't roll back.
	if _, err := s.st.DB.Exec(`UPDATE users SET requests_made=requests_made+1, updated_at=now() WHERE id=$1`, requesterID); err != nil {
		log.Printf("quest %s created but requests_made increment failed for %s: %v", q.ID, requesterID, err)
	}
	return &q, nil
}

func (s *Service) Get(questID string) (*models.Quest, error) {
	var q models.Quest
	err := s.st.DB.QueryRowx(`SELECT * FROM requests WHERE id=$1`, questID).StructScan(&q)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no request with id: " + questID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &q, nil
}

// Accept claims an open quest for callerID. The status check and the write
// are one conditional UPDATE so two racing runners can never both win; the
// loser is classified by re-reading the row.
func (s *Service) Accept(questID, callerID string) (*models.Quest, error) {
	var q models.Quest
	err := s.st.DB.QueryRowx(`UPDATE requests
		SET status=$1, runner_id=$2, updated_at=now()
		WHERE id=$3 AND status=$4 AND requester_id<>$2
		RETURNING *`,
		models.StatusAccepted, callerID, questID, models.StatusOpen).StructScan(&q)
	if err == nil {
		return &q, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Internal(err)
	}
	cur, err := s.Get(questID)
	if err != nil {
		return nil, err
	}
	if err := CanAccept(cur, callerID); err != nil {
		return nil, err
	}
	// The quest was open and acceptable on re-read; the conditional update
	// lost a race that has since been undone. Report the conflict.
	return nil, apperr.StateConflict("this request has already been accepted")
}

func (s *Service) Cancel(questID, callerID string) (*models.Quest, error) {
	q, err := s.Get(questID)
	if err != nil {
		return nil, err
	}
	if err := CanCancel(q, callerID); err != nil {
		return nil, err
	}
	var out models.Quest
	err = s.st.DB.QueryRowx(`UPDATE requests
		SET status=$1, runner_id=NULL, updated_at=now()
		WHERE id=$2 AND status=$3
		RETURNING *`,
		models.StatusOpen, questID, models.StatusAccepted).StructScan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.StateConflict("only an accepted quest can be canceled")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &out, nil
}

func (s *Service) Complete(questID, callerID string) (*models.Quest, error) {
	q, err := s.Get(questID)
	if err != nil {
		return nil, err
	}
	if err := CanComplete(q, callerID); err != nil {
		return nil, err
	}
	var out models.Quest
	err = s.st.DB.QueryRowx(`UPDATE requests
		SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3
		RETURNING *`,
		models.StatusCompleted, questID, models.StatusAccepted).StructScan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.StateConflict("only an accepted quest can be completed")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if out.RunnerID != nil {
		if _, err := s.st.DB.Exec(`UPDATE users SET runs_completed=runs_completed+1, updated_at=now() WHERE id=$1`, *out.RunnerID); err != nil {
			log.Printf("quest %s completed but runs_completed increment failed for %s: %v", out.ID, *out.RunnerID, err)
		}
	}
	return &out, nil
}

func (s *Service) Delete(questID, callerID string) error {
	q, err := s.Get(questID)
	if err != nil {
		return err
	}
	if err := CanDelete(q, callerID); err != nil {
		return err
	}
	res, err := s.st.DB.Exec(`DELETE FROM requests WHERE id=$1 AND status=$2`, questID, models.StatusOpen)
	if err != nil {
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.StateConflict("cannot delete a request that has been accepted")
	}
	return nil
}

// Rate appends the value to the counterparty's rating list and recomputes the
// derived count and average from the list inside the same transaction.
func (s *Service) Rate(questID, raterID string, value int) error {
	if !ratings.Valid(value) {
		return apperr.Validation("rating must be a number from 1 to 5")
	}
	q, err := s.Get(questID)
	if err != nil {
		return err
	}
	target, err := Ratee(q, raterID)
	if err != nil {
		return err
	}

	tx, err := s.st.DB.Beginx()
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowx(`SELECT 1 FROM users WHERE id=$1`, target).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("user to be rated not found")
		}
		return apperr.Internal(err)
	}
	if _, err := tx.Exec(`INSERT INTO ratings(user_id, value) VALUES($1,$2)`, target, value); err != nil {
		return apperr.Internal(err)
	}
	// The list is the source of truth; the cached count and average are
	// recomputed from it in full, inside the same transaction.
	var values []int
	if err := tx.Select(&values, `SELECT value FROM ratings WHERE user_id=$1 ORDER BY id`, target); err != nil {
		return apperr.Internal(err)
	}
	count, avg := ratings.Aggregate(values)
	_, err = tx.Exec(`UPDATE users SET number_of_ratings=$1, average_rating=$2, updated_at=now() WHERE id=$3`,
		count, avg, target)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

const listingCols = `r.*,
	req.id AS "requester.id", req.name AS "requester.name",
	req.profile_picture_url AS "requester.profile_picture_url",
	req.average_rating AS "requester.average_rating",
	req.runs_completed AS "requester.runs_completed",
	COALESCE(run.id,'') AS "runner.id", COALESCE(run.name,'') AS "runner.name",
	COALESCE(run.profile_picture_url,'') AS "runner.profile_picture_url",
	COALESCE(run.average_rating,0) AS "runner.average_rating",
	COALESCE(run.runs_completed,0) AS "runner.runs_completed"`

type listRow struct {
	models.Quest
	Requester models.Summary `db:"requester"`
	Runner    models.Summary `db:"runner"`
}

func (s *Service) list(where string, arg any) ([]models.QuestListing, error) {
	q := `SELECT ` + listingCols + ` FROM requests r
		JOIN users req ON req.id=r.requester_id
		LEFT JOIN users run ON run.id=r.runner_id
		WHERE ` + where + ` ORDER BY r.created_at DESC`
	var rows []listRow
	var err error
	if arg == nil {
		err = s.st.DB.Select(&rows, q)
	} else {
		err = s.st.DB.Select(&rows, q, arg)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]models.QuestListing, 0, len(rows))
	for i := range rows {
		l := models.QuestListing{Quest: rows[i].Quest}
		req := rows[i].Requester
		l.Requester = &req
		if rows[i].RunnerID != nil {
			run := rows[i].Runner
			l.Runner = &run
		}
		out = append(out, l)
	}
	return out, nil
}

// ListOpen is the public feed: open quests, newest first, requester attached.
func (s *Service) ListOpen() ([]models.QuestListing, error) {
	return s.list(`r.status='open'`, nil)
}

func (s *Service) MyQuests(userID string) ([]models.QuestListing, error) {
	return s.list(`r.requester_id=$1`, userID)
}

func (s *Service) MyRuns(userID string) ([]models.QuestListing, error) {
	return s.list(`r.runner_id=$1`, userID)
}

// Contact reveals the counterparty's phone number while the quest is
// accepted. Cipher failures surface as a generic retrieval error; the
// ciphertext never reaches the caller.
func (s *Service) Contact(questID, callerID string) (string, error) {
	q, err := s.Get(questID)
	if err != nil {
		return "", err
	}
	if err := CanReveal(q, callerID); err != nil {
		return "", err
	}
	other, ok := q.Counterpart(callerID)
	if !ok {
		return "", apperr.NotFound("contact user not found")
	}
	var phone string
	err = s.st.DB.QueryRowx(`SELECT phone FROM users WHERE id=$1`, other).Scan(&phone)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.NotFound("contact user not found")
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	if phone == "" {
		return "", apperr.NotFound("user has not provided a phone number")
	}
	plain, err := s.cipher.Decrypt(phone)
	if err != nil {
		return "", apperr.Crypto(err)
	}
	return plain, nil
}
