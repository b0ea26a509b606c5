package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
	"github.com/tu-usuario/invoice-pro/pkg/jwt"
	"github.com/tu-usuario/invoice-pro/pkg/logger"
)

// Config parámetros de emisión de tokens.
type Config struct {
	JWTSecret  string
	Issuer     string
	ExpMinutes int
}

// UseCase registro y login de usuarios. Los passwords se guardan con bcrypt;
// el login emite un JWT HS256 con el userID como subject.
type UseCase struct {
	userRepo repository.UserRepository
	cfg      Config
	log      *logger.Logger
}

func NewUseCase(userRepo repository.UserRepository, cfg Config, log *logger.Logger) *UseCase {
	return &UseCase{userRepo: userRepo, cfg: cfg, log: log}
}

// Register crea un usuario nuevo. Email único; password mínimo 8 caracteres.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: el password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}

	if existing, _ := uc.userRepo.GetByEmail(email); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	uc.log.Info().Str("user_id", user.ID).Str("email", email).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// Login valida credenciales y emite un token. Credenciales malas devuelven
// siempre el mismo error, sin distinguir email inexistente de password malo.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}

	token, err := jwt.Generate(uc.cfg.JWTSecret, user.ID, uc.cfg.Issuer, uc.cfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	uc.log.Info().Str("user_id", user.ID).Msg("login exitoso")
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

// Me devuelve el perfil del usuario autenticado.
func (uc *UseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
