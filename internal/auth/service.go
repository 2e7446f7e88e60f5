package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/mail"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/models"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/store"
)

const resetTokenTTL = 10 * time.Minute

type Service struct {
	st        *store.Store
	jwt       *JWT
	mailer    mail.Sender
	clientURL string
}

func NewService(st *store.Store, jwt *JWT, mailer mail.Sender, clientURL string) *Service {
	return &Service{st: st, jwt: jwt, mailer: mailer, clientURL: clientURL}
}

func (s *Service) Register(name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, "", apperr.Validation("please provide all values")
	}
	var exists int
	err := s.st.DB.QueryRowx(`SELECT 1 FROM users WHERE email=$1`, email).Scan(&exists)
	if err == nil {
		return nil, "", apperr.Validation("email already in use")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	var u models.User
	err = s.st.DB.QueryRowx(`INSERT INTO users(name, email, password_hash)
		VALUES($1,$2,$3) RETURNING *`, name, email, string(hash)).StructScan(&u)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	verifyToken, err := s.jwt.Sign(u.ID, u.Name)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	link := fmt.Sprintf("%s/verify-email?token=%s", s.clientURL, verifyToken)
	err = s.mailer.Send(mail.Email{
		To:      u.Email,
		Subject: "FetchQuest Email Confirmation",
		HTML: fmt.Sprintf(`<h4>Hello, %s</h4><p>Please confirm your email by clicking on the following link: <a href="%s">Verify Email</a></p>`,
			u.Name, link),
	})
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return &u, verifyToken, nil
}

func (s *Service) VerifyEmail(token string) error {
	if token == "" {
		return apperr.Validation("verification token is required")
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return apperr.Validation("invalid or expired verification token")
	}
	res, err := s.st.DB.Exec(`UPDATE users SET is_verified=TRUE, updated_at=now() WHERE id=$1`, claims.UserID)
	if err != nil {
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *Service) Login(email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", apperr.Validation("please provide email and password")
	}
	var u models.User
	err := s.st.DB.QueryRowx(`SELECT * FROM users WHERE email=$1`, email).StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", apperr.Authorization("invalid credentials")
	}
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.Authorization("invalid credentials")
	}
	if !u.IsVerified {
		return nil, "", apperr.Authorization("please verify your email first")
	}
	tok, err := s.jwt.Sign(u.ID, u.Name)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return &u, tok, nil
}

// ForgotPassword never discloses whether the email exists; callers always get
// the same response.
func (s *Service) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return apperr.Validation("please provide a valid email")
	}
	var u models.User
	err := s.st.DB.QueryRowx(`SELECT * FROM users WHERE email=$1`, email).StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return apperr.Internal(err)
	}

	raw := make([]byte, 70)
	if _, err := rand.Read(raw); err != nil {
		return apperr.Internal(err)
	}
	token := hex.EncodeToString(raw)
	hashed := hashToken(token)
	expires := time.Now().Add(resetTokenTTL)

	_, err = s.st.DB.Exec(`UPDATE users SET password_reset_token=$1, password_reset_expires_at=$2, updated_at=now() WHERE id=$3`,
		hashed, expires, u.ID)
	if err != nil {
		return apperr.Internal(err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.clientURL, token, u.Email)
	err = s.mailer.Send(mail.Email{
		To:      u.Email,
		Subject: "FetchQuest Password Reset",
		HTML: fmt.Sprintf(`<h4>Hello, %s</h4><p>Please reset your password by clicking on the following link: <a href="%s">Reset Password</a></p>`,
			u.Name, link),
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) ResetPassword(token, email, password string) error {
	if token == "" || email == "" || password == "" {
		return apperr.Validation("please provide all values")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	var u models.User
	err := s.st.DB.QueryRowx(`SELECT * FROM users WHERE email=$1`, email).StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Validation("invalid or expired reset token")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if u.PasswordResetToken == nil || u.PasswordResetExpiresAt == nil ||
		*u.PasswordResetToken != hashToken(token) || time.Now().After(*u.PasswordResetExpiresAt) {
		return apperr.Validation("invalid or expired reset token")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}
	_, err = s.st.DB.Exec(`UPDATE users SET password_hash=$1, password_reset_token=NULL, password_reset_expires_at=NULL, updated_at=now() WHERE id=$2`,
		string(hash), u.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
