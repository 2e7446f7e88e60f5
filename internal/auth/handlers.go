package auth

import (
	"encoding/json"
	"net/http"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
)

type registerReq struct{ Name, Email, Password string }
type loginReq struct{ Email, Password string }
type forgotReq struct{ Email string }
type resetReq struct{ Token, Email, Password string }

func HandleRegister(s *Service, w http.ResponseWriter, r *http.Request) error {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	u, verifyToken, err := s.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(map[string]any{
		"msg":               "success! please check your email to verify your account",
		"user":              map[string]any{"name": u.Name, "email": u.Email},
		"verificationToken": verifyToken,
	})
}

func HandleVerifyEmail(s *Service, w http.ResponseWriter, r *http.Request) error {
	if err := s.VerifyEmail(r.URL.Query().Get("token")); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]string{"msg": "email verified successfully"})
}

func HandleLogin(s *Service, w http.ResponseWriter, r *http.Request) error {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	u, tok, err := s.Login(req.Email, req.Password)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{
		"user":  map[string]any{"name": u.Name, "email": u.Email},
		"token": tok,
	})
}

func HandleForgotPassword(s *Service, w http.ResponseWriter, r *http.Request) error {
	var req forgotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := s.ForgotPassword(req.Email); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]string{
		"msg": "if an account with that email exists, a password reset link has been sent",
	})
}

func HandleResetPassword(s *Service, w http.ResponseWriter, r *http.Request) error {
	var req resetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := s.ResetPassword(req.Token, req.Email, req.Password); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(map[string]string{"msg": "success! password has been reset"})
}
