package users

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/httputil"
)

const maxPhotoBytes = 5 << 20

func HandleMe(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	user, err := s.Me(u.UserID)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"user": user})
}

type updateReq struct{ Name string }

func HandleUpdate(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	var req updateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	user, err := s.UpdateName(u.UserID, req.Name)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"user": user, "msg": "profile updated successfully!"})
}

type phoneReq struct{ Phone string }

func HandleUpdatePhone(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	var req phoneReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	user, err := s.UpdatePhone(u.UserID, req.Phone)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"user": user, "msg": "phone number updated successfully!"})
}

func HandleUpload(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		return apperr.Validation("no image file uploaded")
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return apperr.Validation("no image file uploaded")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		return apperr.Internal(err)
	}
	user, err := s.UploadPhoto(r.Context(), u.UserID, header.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"user": user, "msg": "profile picture updated successfully!"})
}

type deleteReq struct{ Password string }

func HandleDelete(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := httputil.ClaimsFrom(r)
	var req deleteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := s.DeleteAccount(r.Context(), u.UserID, req.Password); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]string{"msg": "your account has been successfully deleted"})
}
