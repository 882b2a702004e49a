package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"wishlist/api/internal/apperr"
	"wishlist/api/internal/auth"
	"wishlist/api/internal/config"
	"wishlist/api/internal/ids"
	"wishlist/api/internal/media"
	"wishlist/api/internal/models"
	"wishlist/api/internal/repository"
)

type UserService struct {
	users    UserStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	throttle LoginLimiter
	images   ImageStore
	cfg      *config.AppConfig
	log      zerolog.Logger

	decoyOnce sync.Once
	decoyHash string
}

func NewUserService(
	users UserStore,
	hasher PasswordHasher,
	tokens TokenIssuer,
	throttle LoginLimiter,
	images ImageStore,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		images:   images,
		cfg:      cfg,
		log:      log.With().Str("service", "users").Logger(),
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type AuthResult struct {
	User  models.User
	Token string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, models.User{
		ID:           ids.New(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        normalizeEmail(input.Email),
		PasswordHash: passwordHash,
		Roles:        []models.Role{models.RoleUser},
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return AuthResult{}, apperr.Wrap(apperr.CodeConflict, MsgEmailTaken, err)
		}
		return AuthResult{}, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return AuthResult{User: user, Token: token}, nil
}

// Login answers an unknown email and a wrong password with the same error.
// The two cases are still logged separately.
func (s *UserService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)

	if !s.loginAllowed(ctx, email) {
		s.log.Warn().Str("email", email).Str("reason", "throttled").Msg("login rejected")
		return AuthResult{}, apperr.RateLimited(MsgTooManyAttempts)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		// burn the same hashing time as a real comparison
		s.hasher.Verify(password, s.decoy())
		s.log.Info().Str("email", email).Str("reason", "unknown_email").Msg("login rejected")
		return AuthResult{}, apperr.Unauthorized(MsgCredentialsMismatch)
	}
	if err != nil {
		return AuthResult{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info().Str("user_id", user.ID).Str("reason", "password_mismatch").Msg("login rejected")
		return AuthResult{}, apperr.Unauthorized(MsgCredentialsMismatch)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("reset login throttle failed")
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *UserService) loginAllowed(ctx context.Context, email string) bool {
	if s.throttle == nil {
		return true
	}
	ok, err := s.throttle.Reserve(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable")
		return true
	}
	return ok
}

func (s *UserService) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash(ids.New())
		if err != nil {
			s.log.Warn().Err(err).Msg("decoy hash failed")
		}
		s.decoyHash = hash
	})
	return s.decoyHash
}

type UserPage struct {
	Data   []models.User
	Count  int
	Limit  int
	Offset int
}

func (s *UserService) List(ctx context.Context, limit, offset int) (UserPage, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return UserPage{}, err
	}
	count, err := s.users.Count(ctx)
	if err != nil {
		return UserPage{}, err
	}
	return UserPage{Data: users, Count: count, Limit: limit, Offset: offset}, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	return user, userNotFound(err)
}

// ProfileUpdate holds the optional profile fields; nil leaves a field as is.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

func (s *UserService) UpdateByID(ctx context.Context, session auth.Session, id string, input ProfileUpdate) (models.User, error) {
	if err := auth.RequireSelfOrRole(session, id, models.RoleAdmin); err != nil {
		return models.User{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, userNotFound(err)
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}

	updated, err := s.users.UpdateProfile(ctx, user)
	if errors.Is(err, repository.ErrEmailTaken) {
		return models.User{}, apperr.Wrap(apperr.CodeConflict, MsgEmailTaken, err)
	}
	return updated, userNotFound(err)
}

func (s *UserService) DeleteByID(ctx context.Context, session auth.Session, id string) error {
	if err := auth.RequireSelfOrRole(session, id, models.RoleAdmin); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return userNotFound(err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return userNotFound(err)
	}

	if user.Image != nil {
		s.removeImage(ctx, *user.Image)
	}
	s.log.Info().Str("user_id", id).Str("by", session.UserID).Msg("user deleted")
	return nil
}

func (s *UserService) SetRoles(ctx context.Context, session auth.Session, id string, roles []models.Role) (models.User, error) {
	if err := auth.RequireRole(models.RoleAdmin, session.Roles); err != nil {
		return models.User{}, err
	}

	unique := make([]models.Role, 0, len(roles))
	for _, role := range roles {
		if !role.Valid() {
			return models.User{}, apperr.Validation(fmt.Sprintf("unknown role %q", role))
		}
		if !slices.Contains(unique, role) {
			unique = append(unique, role)
		}
	}
	if len(unique) == 0 {
		return models.User{}, apperr.Validation("at least one role is required")
	}

	user, err := s.users.UpdateRoles(ctx, id, unique)
	if err != nil {
		return models.User{}, userNotFound(err)
	}
	s.log.Info().Str("user_id", id).Str("by", session.UserID).Strs("roles", models.RolesToStrings(unique)).Msg("roles changed")
	return user, nil
}

type ImageUpload struct {
	Data         []byte
	DeclaredType string
}

func (s *UserService) SetImage(ctx context.Context, session auth.Session, id string, upload ImageUpload) (models.User, error) {
	if err := auth.RequireSelfOrRole(session, id, models.RoleAdmin); err != nil {
		return models.User{}, err
	}

	data, kind, err := s.checkImage(upload)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, userNotFound(err)
	}

	key := fmt.Sprintf("users/%s/%s.%s", id, ids.New(), kind)
	if err := s.images.Put(ctx, key, kind.MIME(), data); err != nil {
		return models.User{}, err
	}

	updated, err := s.users.UpdateImage(ctx, id, &key)
	if err != nil {
		s.removeImage(ctx, key)
		return models.User{}, userNotFound(err)
	}

	if user.Image != nil {
		s.removeImage(ctx, *user.Image)
	}
	return updated, nil
}

func (s *UserService) checkImage(upload ImageUpload) ([]byte, media.Kind, error) {
	if len(upload.Data) == 0 {
		return nil, "", apperr.Validation("image file is empty")
	}
	if limit := s.cfg.Storage.MaxImageBytes; limit > 0 && int64(len(upload.Data)) > limit {
		return nil, "", apperr.Validation(fmt.Sprintf("image exceeds %d bytes", limit))
	}

	kind, err := media.Detect(upload.Data)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeValidation, "unsupported image type", err)
	}
	declared := upload.DeclaredType
	if declared != "" && declared != "application/octet-stream" && declared != kind.MIME() {
		return nil, "", apperr.Validation(fmt.Sprintf("content type mismatch: declared %s, actual %s", declared, kind.MIME()))
	}

	data := upload.Data
	if kind == media.KindSVG {
		if data, err = media.SanitizeSVG(data); err != nil {
			return nil, "", apperr.Wrap(apperr.CodeValidation, "invalid svg image", err)
		}
	}
	return data, kind, nil
}

func (s *UserService) ImageURL(ctx context.Context, id string) (string, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", userNotFound(err)
	}
	if user.Image == nil {
		return "", apperr.NotFound("user has no image")
	}
	return s.images.PresignedURL(ctx, *user.Image, s.cfg.Storage.PresignTTL)
}

func (s *UserService) removeImage(ctx context.Context, key string) {
	if err := s.images.Remove(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("remove image failed")
	}
}

func userNotFound(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.Wrap(apperr.CodeNotFound, MsgUserNotFound, err)
	}
	return err
}
