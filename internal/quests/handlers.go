package quests

import (
	"encoding/json"
	"net/http"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/httputil"
)

func HandleCreate(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	q, err := s.Create(u.UserID, in)
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(map[string]any{"request": q})
}

func HandleListOpen(s *Service, w http.ResponseWriter, r *http.Request) error {
	list, err := s.ListOpen()
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"requests": list, "count": len(list)})
}

func HandleAccept(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	q, err := s.Accept(r.PathValue("id"), u.UserID)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"msg": "request accepted successfully!", "request": q})
}

func HandleCancel(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	q, err := s.Cancel(r.PathValue("id"), u.UserID)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"msg": "quest canceled and returned to the live feed", "request": q})
}

func HandleComplete(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	q, err := s.Complete(r.PathValue("id"), u.UserID)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"msg": "quest completed successfully!", "request": q})
}

func HandleDelete(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	if err := s.Delete(r.PathValue("id"), u.UserID); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]string{"msg": "success! request has been deleted"})
}

type rateReq struct {
	Rating int `json:"rating"`
}

func HandleRate(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	var req rateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.Validation("rating must be a number from 1 to 5")
	}
	if err := s.Rate(r.PathValue("id"), u.UserID, req.Rating); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]string{"msg": "rating submitted successfully!"})
}

func HandleMyQuests(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	list, err := s.MyQuests(u.UserID)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"requests": list, "count": len(list)})
}

func HandleMyRuns(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	list, err := s.MyRuns(u.UserID)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"requests": list, "count": len(list)})
}

func HandleContact(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	phone, err := s.Contact(r.PathValue("id"), u.UserID)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]string{"phone": phone})
}
