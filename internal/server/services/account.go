package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/dmitrijs2005/civicfollow/internal/cryptox"
	"github.com/dmitrijs2005/civicfollow/internal/dbx"
	"github.com/dmitrijs2005/civicfollow/internal/logging"
	"github.com/dmitrijs2005/civicfollow/internal/server/auth"
	"github.com/dmitrijs2005/civicfollow/internal/server/config"
	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NewAccount is the input to AccountService.Create.
type NewAccount struct {
	Username  string
	Password  string
	IsRep     bool
	FirstName string
	LastName  string
	Zipcode   string
	State     string
}

type LoginResult struct {
	Account     *models.Account
	AccessToken string
}

type AccountService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      *cryptox.Hasher
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	queryTimeout                time.Duration

	dummyOnce sync.Once
	dummyHash string
}

type AccountOption func(*AccountService)

// WithHasher overrides the password hasher (cryptox.DefaultParams otherwise).
func WithHasher(h *cryptox.Hasher) AccountOption {
	return func(s *AccountService) { s.hasher = h }
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger, opts ...AccountOption) *AccountService {
	s := &AccountService{
		db:                          db,
		repomanager:                 m,
		hasher:                      cryptox.NewHasher(cryptox.DefaultParams),
		logger:                      logger.With("module", "accounts"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		queryTimeout:                cfg.QueryTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	accounts, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Find returns (nil, nil) when id is unknown.
func (s *AccountService) Find(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	a, err := nilIfNotFound(s.repomanager.Users(s.db).Find(ctx, id))
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

// FindByUsername returns (nil, nil) when no account has exactly this username.
func (s *AccountService) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	a, err := nilIfNotFound(s.repomanager.Users(s.db).FindByUsername(ctx, username))
	if err != nil {
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return a, nil
}

func (s *AccountService) Create(ctx context.Context, in NewAccount) (*models.Account, error) {
	if in.Username == "" {
		return nil, fmt.Errorf("%w: empty username", common.ErrorInvalidInput)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	rec := &models.AccountRecord{
		Username:     in.Username,
		PasswordHash: hash,
		IsRep:        in.IsRep,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Zipcode:      in.Zipcode,
		State:        in.State,
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	a, err := s.repomanager.Users(s.db).Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info(ctx, "account created", "account", a)
	return a, nil
}

// Update replaces every profile field with p. Fields left at their zero
// value are cleared. Returns (nil, nil) when id is unknown.
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	a, err := nilIfNotFound(s.repomanager.Users(s.db).Update(ctx, id, &p))
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if a != nil {
		s.logger.Info(ctx, "account updated", "account", a)
	}
	return a, nil
}

func (s *AccountService) UpdateBio(ctx context.Context, id uuid.UUID, bio string) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	a, err := nilIfNotFound(s.repomanager.Users(s.db).UpdateBio(ctx, id, bio))
	if err != nil {
		return nil, fmt.Errorf("update bio: %w", err)
	}
	return a, nil
}

func (s *AccountService) IsValidPassword(a *models.Account, candidate string) bool {
	if a == nil {
		return false
	}
	return a.IsValidPassword(candidate)
}

// DeleteAll wipes follow edges and accounts in one transaction.
func (s *AccountService) DeleteAll(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Followers(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return s.repomanager.Users(tx).DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("delete all: %w", err)
	}

	s.logger.Warn(ctx, "all accounts and follow edges deleted")
	return nil
}

func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(string(common.GenerateRandByteArray(16)))
	})
	return s.dummyHash
}

// Login checks username and password and issues an access token.
// Unknown usernames and wrong passwords both yield common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	qctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	repo := s.repomanager.Users(s.db)

	a, err := repo.FindByUsername(qctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !a.IsValidPassword(password) {
		s.logger.Info(ctx, "login failed", "account_id", a.ID)
		return nil, common.ErrorUnauthorized
	}

	if a.PasswordNeedsRehash(s.hasher) {
		s.rehash(qctx, a, password)
	}

	token, err := auth.GenerateToken(a.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "login succeeded", "account_id", a.ID)
	return &LoginResult{Account: a, AccessToken: token}, nil
}

// rehash upgrades a's stored hash. Failures are logged, never returned.
func (s *AccountService) rehash(ctx context.Context, a *models.Account, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.repomanager.Users(s.db).UpdatePasswordHash(ctx, a.ID, hash)
	}
	if err != nil {
		s.logger.Warn(ctx, "password rehash failed", "account_id", a.ID, "error", err)
		return
	}
	s.logger.Info(ctx, "password rehashed", "account_id", a.ID)
}

// Authenticate resolves an access token to its live account.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	id, err := auth.GetAccountIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	a, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, common.ErrorUnauthorized
	}
	return a, nil
}
