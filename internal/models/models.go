package models

import "time"

// Quest lifecycle statuses. "rated" is reserved in the enum and schema but no
// operation currently transitions into it; rating mutates the counterparty's
// reputation instead.
const (
	StatusOpen      = "open"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
	StatusRated     = "rated"
)

type User struct {
	ID                     string     `db:"id" json:"id"`
	Name                   string     `db:"name" json:"name"`
	Email                  string     `db:"email" json:"email"`
	PasswordHash           string     `db:"password_hash" json:"-"`
	ProfilePictureURL      string     `db:"profile_picture_url" json:"profilePictureUrl"`
	UpiID                  string     `db:"upi_id" json:"upiId"`
	Phone                  string     `db:"phone" json:"phone"` // encrypted at rest, "" = not set
	AverageRating          float64    `db:"average_rating" json:"averageRating"`
	NumberOfRatings        int        `db:"number_of_ratings" json:"numberOfRatings"`
	RequestsMade           int        `db:"requests_made" json:"requestsMade"`
	RunsCompleted          int        `db:"runs_completed" json:"runsCompleted"`
	IsVerified             bool       `db:"is_verified" json:"isVerified"`
	PasswordResetToken     *string    `db:"password_reset_token" json:"-"`
	PasswordResetExpiresAt *time.Time `db:"password_reset_expires_at" json:"-"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// Summary is the public slice of a user attached to quest listings and chat
// snapshots. Never carries email, phone, or credentials.
type Summary struct {
	ID                string  `db:"id" json:"id"`
	Name              string  `db:"name" json:"name"`
	ProfilePictureURL string  `db:"profile_picture_url" json:"profilePictureUrl"`
	AverageRating     float64 `db:"average_rating" json:"averageRating"`
	RunsCompleted     int     `db:"runs_completed" json:"runsCompleted"`
}

func (u *User) Summary() Summary {
	return Summary{
		ID:                u.ID,
		Name:              u.Name,
		ProfilePictureURL: u.ProfilePictureURL,
		AverageRating:     u.AverageRating,
		RunsCompleted:     u.RunsCompleted,
	}
}

type Quest struct {
	ID               string    `db:"id" json:"id"`
	RequesterID      string    `db:"requester_id" json:"requesterId"`
	RunnerID         *string   `db:"runner_id" json:"runnerId"`
	ItemsList        string    `db:"items_list" json:"itemsList"`
	DeliveryLocation string    `db:"delivery_location" json:"deliveryLocation"`
	EstimatedCost    float64   `db:"estimated_cost" json:"estimatedCost"`
	Tip              float64   `db:"tip" json:"tip"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// IsParty reports whether userID is the requester or the current runner.
func (q *Quest) IsParty(userID string) bool {
	return q.RequesterID == userID || (q.RunnerID != nil && *q.RunnerID == userID)
}

// Counterpart returns the other party's id relative to userID. ok is false
// when userID is not a party or the quest has no runner yet.
func (q *Quest) Counterpart(userID string) (string, bool) {
	if q.RequesterID == userID {
		if q.RunnerID == nil {
			return "", false
		}
		return *q.RunnerID, true
	}
	if q.RunnerID != nil && *q.RunnerID == userID {
		return q.RequesterID, true
	}
	return "", false
}

// QuestListing is a quest enriched with party summaries for feed views.
type QuestListing struct {
	Quest
	Requester *Summary `json:"requester,omitempty"`
	Runner    *Summary `json:"runner,omitempty"`
}

type Message struct {
	ID        int64     `db:"id" json:"id"`
	QuestID   string    `db:"quest_id" json:"questId"`
	SenderID  string    `db:"sender_id" json:"senderId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
