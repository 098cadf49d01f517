package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/store"
)

// AuthService manages user accounts and issues the tokens carrying the uid
// that all private-subtree writes are keyed by. Admin status is not an
// account property; it lives at /admins/{uid} in the tree.
type AuthService struct {
	db        *gorm.DB
	store     store.Store
	jwtSecret string
}

func NewAuthService(db *gorm.DB, s store.Store, jwtSecret string) *AuthService {
	return &AuthService{db: db, store: s, jwtSecret: jwtSecret}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, validationf("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		UID:         uuid.NewString(),
		Email:       req.Email,
		Password:    string(hashed),
		DisplayName: req.DisplayName,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) Login(req *LoginRequest) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return "", nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  user.UID,
		"name": user.DisplayName,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}
	return signed, &user, nil
}

func (s *AuthService) GetUserByUID(uid string) (*models.User, error) {
	var user models.User
	err := s.db.Where("uid = ?", uid).First(&user).Error
	return &user, err
}

// IsAdmin checks the /admins/{uid} flag in the tree.
func (s *AuthService) IsAdmin(uid string) bool {
	return store.AsBool(s.store.Get(store.Join("admins", uid)))
}

// SetAdmin grants or revokes admin status.
func (s *AuthService) SetAdmin(uid string, admin bool) error {
	path := store.Join("admins", uid)
	if admin {
		return s.store.Set(path, true)
	}
	return s.store.Remove(path)
}
