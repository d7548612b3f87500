package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"org-membership-service/internal/db/txn"
	identitydomain "org-membership-service/internal/identity/domain"
	membershipdomain "org-membership-service/internal/membership/domain"
	orgdomain "org-membership-service/internal/organization/domain"
	"org-membership-service/internal/platform/apperr"
	"org-membership-service/internal/security"
	userdomain "org-membership-service/internal/user/domain"
)

// Sentinel errors for the auth service; httpx.WriteError maps them to HTTP statuses.
var (
	ErrEmailAlreadyRegistered = apperr.New(apperr.KindConflict, "Registration unsuccessful")
	ErrInvalidCredentials     = apperr.New(apperr.KindAuthentication, "Authentication failed")
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
}

// TokenIssuer issues identity tokens.
type TokenIssuer interface {
	Issue(userID, firstName string) (string, time.Time, error)
}

// Validator checks request payloads.
type Validator interface {
	Struct(s interface{}) error
}

// Recorder observes auth outcomes. Implemented by telemetry/metrics.
type Recorder interface {
	Registration(outcome string)
	Login(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Registration(string) {}
func (nopRecorder) Login(string)        {}

// AuthService implements password registration and login.
type AuthService struct {
	userRepo  UserRepo
	tx        txn.Transactor
	hasher    *security.Hasher
	tokens    TokenIssuer
	validator Validator
	recorder  Recorder
	log       *zap.Logger
	now       func() time.Time
}

// NewAuthService returns an AuthService with the given dependencies. recorder and log may be nil.
func NewAuthService(
	userRepo UserRepo,
	tx txn.Transactor,
	hasher *security.Hasher,
	tokens TokenIssuer,
	validator Validator,
	recorder Recorder,
	log *zap.Logger,
) *AuthService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		userRepo:  userRepo,
		tx:        tx,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		recorder:  recorder,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register validates in, then creates the user, a default organisation named
// "<firstName>'s Organisation", and the membership linking them in one transaction.
func (s *AuthService) Register(ctx context.Context, in identitydomain.Registration) (*identitydomain.Session, error) {
	in.Email = userdomain.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := s.validator.Struct(in); err != nil {
		s.recorder.Registration("invalid")
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.internal("registration lookup", err)
	}
	if existing != nil {
		s.recorder.Registration("conflict")
		return nil, ErrEmailAlreadyRegistered
	}

	hashed, err := s.hasher.Hash([]byte(in.Password))
	if err != nil {
		return nil, s.internal("hash password", err)
	}

	now := s.now()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if err := user.Validate(); err != nil {
		return nil, s.internal("validate user", err)
	}
	org := &orgdomain.Org{
		ID:        uuid.New().String(),
		Name:      orgdomain.DefaultName(user.FirstName),
		CreatedAt: now,
	}

	err = s.tx.WithinTx(ctx, func(repos txn.Repos) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		if err := repos.Orgs.CreateOrganization(ctx, org); err != nil {
			return err
		}
		return repos.Memberships.CreateMembership(ctx, &membershipdomain.Membership{
			UserID:    user.ID,
			OrgID:     org.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		if errors.Is(err, userdomain.ErrEmailTaken) {
			// Lost a race with a concurrent registration for the same email.
			s.recorder.Registration("conflict")
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, s.internal("registration transaction", err)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.recorder.Registration("success")
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("org_id", org.ID))
	return session, nil
}

// Login authenticates email and password. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, in identitydomain.Credentials) (*identitydomain.Session, error) {
	in.Email = userdomain.NormalizeEmail(in.Email)
	if err := s.validator.Struct(in); err != nil {
		s.recorder.Login("invalid")
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.internal("login lookup", err)
	}
	if user == nil {
		s.hasher.CompareDummy([]byte(in.Password))
		s.recorder.Login("failure")
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(in.Password)); err != nil {
		s.recorder.Login("failure")
		return nil, ErrInvalidCredentials
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.recorder.Login("success")
	return session, nil
}

func (s *AuthService) issue(user *userdomain.User) (*identitydomain.Session, error) {
	token, exp, err := s.tokens.Issue(user.ID, user.FirstName)
	if err != nil {
		return nil, s.internal("issue token", err)
	}
	return &identitydomain.Session{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) internal(op string, err error) error {
	return apperr.Internal(fmt.Errorf("auth: %s: %w", op, err))
}
