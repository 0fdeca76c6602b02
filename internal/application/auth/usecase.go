package auth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/domain"
	"github.com/jhoicas/usa-store/internal/domain/account"
	"github.com/jhoicas/usa-store/internal/domain/entity"
	"github.com/jhoicas/usa-store/internal/domain/repository"
	"github.com/jhoicas/usa-store/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Config política de contraseñas y de bloqueo de login.
type Config struct {
	BcryptCost        int
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	JWT               JWTConfig
}

// DefaultConfig costo bcrypt 10, bloqueo de 2 minutos tras 5 fallos.
func DefaultConfig() Config {
	return Config{
		BcryptCost:        bcrypt.DefaultCost,
		MaxFailedAttempts: 5,
		LockoutDuration:   2 * time.Minute,
	}
}

// AuthUseCase casos de uso de autenticación: bootstrap del admin, login, sesión y logout.
type AuthUseCase struct {
	userRepo repository.UserRepository
	txRunner TxRunner
	sessions SessionStore
	lockouts LockoutStore
	cfg      Config
	now      func() time.Time
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth. Los valores no positivos de cfg toman los de DefaultConfig.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	txRunner TxRunner,
	sessions SessionStore,
	lockouts LockoutStore,
	cfg Config,
	log zerolog.Logger,
) *AuthUseCase {
	def := DefaultConfig()
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = def.BcryptCost
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	return &AuthUseCase{
		userRepo: userRepo,
		txRunner: txRunner,
		sessions: sessions,
		lockouts: lockouts,
		cfg:      cfg,
		now:      time.Now,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

// SetClock reemplaza el reloj (tests de bloqueo).
func (uc *AuthUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// NeedsInitialSetup indica si aún no existe ningún usuario.
func (uc *AuthUseCase) NeedsInitialSetup(ctx context.Context) (bool, error) {
	n, err := uc.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// CreateInitialAdmin crea el primer ADMIN. Solo procede con la tabla de usuarios vacía;
// conteo e inserción ocurren en la misma transacción.
func (uc *AuthUseCase) CreateInitialAdmin(ctx context.Context, in dto.SetupRequest) error {
	return uc.txRunner.RunUsers(ctx, func(userRepo repository.UserRepository) error {
		n, err := userRepo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrSetupNotAllowed
		}
		if !account.ValidPassword(in.Password) {
			return domain.ErrPasswordWeak
		}
		if fields := account.ValidateUser(in.Name, in.Username, entity.RoleAdmin); len(fields) > 0 {
			return domain.NewValidation(fields...)
		}
		username := account.NormalizeUsername(in.Username)
		existing, err := userRepo.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrUsernameTaken
		}

		hash, err := bcrypt.GenerateFromPassword(account.PasswordKey(in.Password), uc.cfg.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		now := uc.now()
		user := &entity.User{
			Name:         account.NormalizeName(in.Name),
			Username:     username,
			Role:         entity.RoleAdmin,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		uc.log.Info().Int64("user_id", user.ID).Msg("administrador inicial creado")
		return nil
	})
}

// Login verifica bloqueo y credenciales, abre la sesión y firma el token del bridge.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	key := account.NormalizeUsername(in.Username)
	now := uc.now()

	if st := uc.lockouts.Get(key); st.Locked(now) {
		secs := int(math.Ceil(st.LockedUntil.Sub(now).Seconds()))
		return nil, domain.NewLocked(secs)
	}

	user, err := uc.userRepo.FindByUsername(ctx, key)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.registerFailure(key, now)
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), account.PasswordKey(in.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warn().Err(err).Int64("user_id", user.ID).Msg("hash de contraseña ilegible")
		}
		uc.registerFailure(key, now)
		return nil, domain.ErrInvalidCredentials
	}
	uc.lockouts.Delete(key)

	sess := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		StartedAt: now,
	}
	token, err := jwt.Generate(uc.cfg.JWT.Secret, uc.cfg.JWT.Issuer, uc.cfg.JWT.ExpMinutes, jwt.Subject{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Name:      sess.Name,
		Role:      sess.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	uc.sessions.Set(sess)

	return &dto.LoginResponse{
		Session: *toSessionResponse(sess),
		Token:   token,
	}, nil
}

// registerFailure suma un fallo; al llegar al umbral fija el bloqueo y reinicia el contador.
func (uc *AuthUseCase) registerFailure(key string, now time.Time) {
	var locked bool
	uc.lockouts.Update(key, func(st *entity.LoginAttemptState) {
		st.FailCount++
		if st.FailCount >= uc.cfg.MaxFailedAttempts {
			st.LockedUntil = now.Add(uc.cfg.LockoutDuration)
			st.FailCount = 0
			locked = true
		}
	})
	if locked {
		uc.log.Warn().Str("username", key).Dur("duration", uc.cfg.LockoutDuration).Msg("login bloqueado por intentos fallidos")
	}
}

// GetSession devuelve la sesión actual o nil.
func (uc *AuthUseCase) GetSession() *dto.SessionResponse {
	return toSessionResponse(uc.sessions.Get())
}

// SessionActive indica si sessionID corresponde a la sesión vigente (los tokens previos a un logout no la tienen).
func (uc *AuthUseCase) SessionActive(sessionID string) bool {
	s := uc.sessions.Get()
	return s != nil && sessionID != "" && s.ID == sessionID
}

// Logout limpia la sesión sin condiciones.
func (uc *AuthUseCase) Logout() {
	uc.sessions.Clear()
}

// ResetState limpia sesión e intentos fallidos (equivale a reiniciar el proceso).
func (uc *AuthUseCase) ResetState() {
	uc.sessions.Reset()
	uc.lockouts.Reset()
}

func toSessionResponse(s *entity.Session) *dto.SessionResponse {
	if s == nil {
		return nil
	}
	return &dto.SessionResponse{
		UserID: s.UserID,
		Name:   s.Name,
		Role:   s.Role,
	}
}
