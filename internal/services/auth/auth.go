package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cinelog/proj/internal/domain/models"
	"cinelog/proj/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserStorage interface {
	Insert(ctx context.Context, email, name string, passwordHash []byte) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

// profileFields is the explicit allow-list for UpdateProfile. Anything else
// in the patch body is rejected outright.
var profileFields = map[string]bool{
	"name":  true,
	"email": true,
}

type AuthService struct {
	log          *slog.Logger
	storage      UserStorage
	mailer       MailProvider
	taskExecutor TaskExecutor
	secret       []byte
	tokenTTL     time.Duration
}

func New(
	log *slog.Logger,
	storage UserStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	secret string,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:          log,
		storage:      storage,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
	}
}

func (a *AuthService) Signup(ctx context.Context, email, name, password string) (*models.User, string, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "email", email)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error(err.Error())
		return nil, "", err
	}
	user, err := a.storage.Insert(ctx, email, name, passwordHash)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("email already registered")
			return nil, "", ErrEmailTaken
		}
		log.Error(err.Error())
		return nil, "", err
	}
	token, err := a.issueToken(user.ID)
	if err != nil {
		log.Error(err.Error())
		return nil, "", err
	}
	if a.mailer != nil {
		a.taskExecutor.Add(func() {
			a.sendWelcomeEmail(user)
		})
	}
	return user, token, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", email)
	user, err := a.storage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same failure as a wrong password, existing emails stay private.
			log.Info("login for unknown email")
			return nil, "", ErrInvalidCredentials
		}
		log.Error(err.Error())
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("password mismatch")
		return nil, "", ErrInvalidCredentials
	}
	token, err := a.issueToken(user.ID)
	if err != nil {
		log.Error(err.Error())
		return nil, "", err
	}
	return user, token, nil
}

// VerifyToken checks signature and expiry of a bearer token and returns the
// user ID it was issued for. Tokens are self-contained, there is no
// server-side session state.
func (a *AuthService) VerifyToken(token string) (int64, error) {
	parsed, err := jwt.Parse(
		token,
		func(t *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int64(uid), nil
}

func (a *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "auth.AuthService.GetUser"
	user, err := a.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.log.With("op", op).Info("user not found", "id", id)
			return nil, ErrUserNotFound
		}
		a.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a patch restricted to the name/email allow-list.
// A patch naming any other field fails before anything is written.
func (a *AuthService) UpdateProfile(ctx context.Context, user *models.User, updates map[string]string) (*models.User, error) {
	const op = "auth.AuthService.UpdateProfile"
	log := a.log.With("op", op, "user_id", user.ID)
	for field := range updates {
		if !profileFields[field] {
			log.Info("rejected profile patch", "field", field)
			return nil, ErrUnknownField
		}
	}
	if name, ok := updates["name"]; ok {
		user.Name = name
	}
	if email, ok := updates["email"]; ok {
		user.Email = email
	}
	updated, err := a.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("email already registered")
			return nil, ErrEmailTaken
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (a *AuthService) issueToken(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": userID,
		"iat": now.Unix(),
		"exp": now.Add(a.tokenTTL).Unix(),
	})
	return token.SignedString(a.secret)
}

func (a *AuthService) sendWelcomeEmail(user *models.User) {
	a.log.Info("sending welcome email", "user_id", user.ID)
	err := a.mailer.Send(user.Email, "user_welcome.html", map[string]any{
		"name":  user.Name,
		"email": user.Email,
	})
	if err != nil {
		a.log.Error("Error sending welcome email", "errMsg", err.Error())
	}
}
