package users

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/crypto"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/models"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/storage"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/store"
)

type Service struct {
	st     *store.Store
	cipher *crypto.FieldCipher
	photos storage.PhotoStore
}

func NewService(st *store.Store, cipher *crypto.FieldCipher, photos storage.PhotoStore) *Service {
	return &Service{st: st, cipher: cipher, photos: photos}
}

func (s *Service) get(userID string) (*models.User, error) {
	var u models.User
	err := s.st.DB.QueryRowx(`SELECT * FROM users WHERE id=$1`, userID).StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &u, nil
}

// Summary exposes the public profile slice; the chat layer uses it for the
// "other party" snapshot.
func (s *Service) Summary(userID string) (*models.Summary, error) {
	u, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	sum := u.Summary()
	return &sum, nil
}

// Me returns the caller's own record with the phone decrypted. A corrupt
// ciphertext degrades to an empty phone rather than failing the request.
func (s *Service) Me(userID string) (*models.User, error) {
	u, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	s.decryptPhone(u)
	return u, nil
}

func (s *Service) decryptPhone(u *models.User) {
	if u.Phone == "" {
		return
	}
	plain, err := s.cipher.Decrypt(u.Phone)
	if err != nil {
		log.Printf("failed to decrypt phone for user %s: %v", u.ID, err)
		u.Phone = ""
		return
	}
	u.Phone = plain
}

func (s *Service) UpdateName(userID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name field cannot be empty")
	}
	var u models.User
	err := s.st.DB.QueryRowx(`UPDATE users SET name=$1, updated_at=now() WHERE id=$2 RETURNING *`, name, userID).StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.decryptPhone(&u)
	return &u, nil
}

// UpdatePhone encrypts before the row is touched; plaintext never reaches
// the database or the logs.
func (s *Service) UpdatePhone(userID, phone string) (*models.User, error) {
	if phone == "" {
		return nil, apperr.Validation("phone number field cannot be empty")
	}
	enc, err := s.cipher.Encrypt(phone)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	var u models.User
	err = s.st.DB.QueryRowx(`UPDATE users SET phone=$1, updated_at=now() WHERE id=$2 RETURNING *`, enc, userID).StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.decryptPhone(&u)
	return &u, nil
}

func (s *Service) UploadPhoto(ctx context.Context, userID, contentType string, data []byte) (*models.User, error) {
	if len(data) == 0 {
		return nil, apperr.Validation("no image file uploaded")
	}
	if !strings.HasPrefix(contentType, "image") {
		return nil, apperr.Validation("please upload an image file")
	}
	url, err := s.photos.UploadProfilePicture(ctx, userID, contentType, data)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	var u models.User
	err = s.st.DB.QueryRowx(`UPDATE users SET profile_picture_url=$1, updated_at=now() WHERE id=$2 RETURNING *`, url, userID).StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.decryptPhone(&u)
	return &u, nil
}

// DeleteAccount requires a password confirmation, removes the user's posted
// quests and stored photo, then the user row itself.
func (s *Service) DeleteAccount(ctx context.Context, userID, password string) error {
	if password == "" {
		return apperr.Validation("password is required for confirmation")
	}
	u, err := s.get(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return apperr.Authorization("invalid credentials, deletion failed")
	}
	if _, err := s.st.DB.Exec(`DELETE FROM requests WHERE requester_id=$1`, userID); err != nil {
		return apperr.Internal(err)
	}
	if u.ProfilePictureURL != "" {
		if err := s.photos.DeleteProfilePicture(ctx, userID); err != nil {
			log.Printf("failed to delete profile picture for user %s: %v", userID, err)
		}
	}
	if _, err := s.st.DB.Exec(`DELETE FROM users WHERE id=$1`, userID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
