package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/models/request_models"
	"helpful/internal/repositories"
	"helpful/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (string, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest, role string) (*db_models.Account, error)
	// Identity resolves the account behind a validated token.
	Identity(ctx context.Context, accountID string) (*Identity, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	jwtSecret   []byte
}

func NewAccountService(accountRepo repositories.AccountRepository, cfg *config.Config) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		jwtSecret:   []byte(cfg.JWTSecret),
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (string, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		log.Error().Stack().Err(err).Msg("finding account")
		return "", utils.ErrDatabaseError
	}
	if account == nil {
		return "", utils.ErrAccountNotFound
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(a.jwtSecret, account.ID, account.Role)
	if err != nil {
		log.Error().Err(err).Msg("signing token")
		return "", utils.ErrInvalidCredentials
	}

	log.Debug().Dur("took", time.Since(startTime)).Str("account", account.ID.String()).Msg("login")
	return token, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest, role string) (*db_models.Account, error) {
	existingAccount, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		log.Error().Stack().Err(err).Msg("finding account")
		return nil, utils.ErrDatabaseError
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	if role == "" {
		role = db_models.RoleUser
	}
	newAccount := &db_models.Account{
		Name:         request.DisplayName,
		Email:        request.Email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := a.accountRepo.Insert(ctx, newAccount); err != nil {
		log.Error().Stack().Err(err).Msg("creating account")
		return nil, utils.ErrDatabaseError
	}

	return newAccount, nil
}

func (a *AccountService) Identity(ctx context.Context, accountID string) (*Identity, error) {
	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		log.Error().Stack().Err(err).Msg("finding account")
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return &Identity{
		AccountID: account.ID.String(),
		Name:      account.Name,
		Email:     account.Email,
		Role:      account.Role,
	}, nil
}
