package messages

import (
	"strings"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/models"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/store"
)

type Service struct{ st *store.Store }

func NewService(st *store.Store) *Service { return &Service{st: st} }

// Create persists one chat message. Rows are append-only; history survives
// quest completion and cancellation.
func (s *Service) Create(questID, senderID, content string) (*models.Message, error) {
	if !ValidContent(content) {
		return nil, apperr.Validation("invalid message content")
	}
	var m models.Message
	err := s.st.DB.QueryRowx(`INSERT INTO messages(quest_id, sender_id, content)
		VALUES($1,$2,$3) RETURNING *`, questID, senderID, strings.TrimSpace(content)).StructScan(&m)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &m, nil
}

// History returns every message for the quest, ascending by creation time.
func (s *Service) History(questID string) ([]models.Message, error) {
	out := []models.Message{}
	err := s.st.DB.Select(&out, `SELECT * FROM messages WHERE quest_id=$1 ORDER BY created_at ASC, id ASC`, questID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
