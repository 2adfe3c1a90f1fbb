package services

import (
	"errors"
	"time"
	"treats/internal/auth"
	"treats/internal/models"
	"treats/internal/providers"
	"treats/internal/structures"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthResult struct {
	Token      string `json:"token"`
	AuthUserID int    `json:"authUserId"`
}

type AuthServiceInterface interface {
	Register(email, password, nameFirst, nameLast string) (AuthResult, error)
	Login(email, password string) (AuthResult, error)
	Logout(token string) error
	Resolve(token string) (int, error)
}

type AuthService struct {
	workspace  WorkspaceInterface
	tokens     auth.TokenIssuerInterface
	logger     providers.Logger
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(conf *structures.Config, workspace WorkspaceInterface, tokens auth.TokenIssuerInterface, logger providers.Logger) AuthServiceInterface {
	cost := conf.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		workspace:  workspace,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: cost,
		now:        time.Now,
	}
}

func (as *AuthService) newSession(s *models.Snapshot, userID int) (string, error) {
	sessionID := uuid.NewString()
	token, err := as.tokens.Issue(sessionID)
	if err != nil {
		return "", err
	}
	s.Sessions = append(s.Sessions, &models.Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: as.now().Unix(),
	})
	return token, nil
}

func (as *AuthService) Register(email, password, nameFirst, nameLast string) (AuthResult, error) {
	if !isValidEmail(email) {
		return AuthResult{}, ErrInvalidEmail
	}
	if !isValidPassword(password) {
		return AuthResult{}, ErrPasswordTooShort
	}
	if !isValidName(nameFirst) || !isValidName(nameLast) {
		return AuthResult{}, ErrInvalidName
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.bcryptCost)
	if err != nil {
		return AuthResult{}, err
	}

	var result AuthResult
	err = as.workspace.Update("register", func(s *models.Snapshot) error {
		if s.UserByEmail(email) != nil {
			return ErrEmailTaken
		}
		now := as.now().Unix()
		permission := models.PermissionMember
		if len(s.Users) == 0 {
			permission = models.PermissionGlobalOwner
		}
		user := &models.User{
			ID:         s.NextUserID(),
			Handle:     generateHandle(s, nameFirst, nameLast),
			NameFirst:  nameFirst,
			NameLast:   nameLast,
			Email:      email,
			Password:   string(hash),
			Permission: permission,
			Stats:      models.NewUserStats(now),
		}
		s.Users = append(s.Users, user)

		token, err := as.newSession(s, user.ID)
		if err != nil {
			return err
		}
		result = AuthResult{Token: token, AuthUserID: user.ID}
		return nil
	})
	if err != nil {
		return AuthResult{}, err
	}
	as.logger.Infof(providers.TypeApp, "User %d registered", result.AuthUserID)
	return result, nil
}

func (as *AuthService) Login(email, password string) (AuthResult, error) {
	var result AuthResult
	err := as.workspace.Update("login", func(s *models.Snapshot) error {
		user := s.UserByEmail(email)
		if user == nil {
			return ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
		token, err := as.newSession(s, user.ID)
		if err != nil {
			return err
		}
		result = AuthResult{Token: token, AuthUserID: user.ID}
		return nil
	})
	if err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

func (as *AuthService) Logout(token string) error {
	sessionID, err := as.tokens.Parse(token)
	if err != nil {
		return ErrInvalidSession
	}
	return as.workspace.Update("logout", func(s *models.Snapshot) error {
		if !s.RemoveSession(sessionID) {
			return ErrInvalidSession
		}
		return nil
	})
}

// Resolve maps a client token to the user owning its session.
func (as *AuthService) Resolve(token string) (int, error) {
	sessionID, err := as.tokens.Parse(token)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidToken) {
			as.logger.Warnf(providers.TypeApp, "Unexpected token error: %s", err)
		}
		return 0, ErrInvalidSession
	}
	var userID int
	err = as.workspace.View(func(s *models.Snapshot) error {
		session := s.Session(sessionID)
		if session == nil || s.User(session.UserID) == nil {
			return ErrInvalidSession
		}
		userID = session.UserID
		return nil
	})
	return userID, err
}
