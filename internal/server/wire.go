package server

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"org-membership-service/internal/config"
	"org-membership-service/internal/db/txn"
	identityservice "org-membership-service/internal/identity/service"
	membershiprepo "org-membership-service/internal/membership/repository"
	membershipservice "org-membership-service/internal/membership/service"
	orgrepo "org-membership-service/internal/organization/repository"
	orgservice "org-membership-service/internal/organization/service"
	"org-membership-service/internal/platform/validate"
	"org-membership-service/internal/security"
	userrepo "org-membership-service/internal/user/repository"
	userservice "org-membership-service/internal/user/service"
)

// Services are the application services over one database handle.
type Services struct {
	Auth        *identityservice.AuthService
	Users       *userservice.UserService
	Orgs        *orgservice.OrgService
	Memberships *membershipservice.MembershipService
}

// NewServices wires repositories and services on gdb. recorder may be nil.
func NewServices(gdb *gorm.DB, tokens identityservice.TokenIssuer, hasher *security.Hasher, recorder identityservice.Recorder, log *zap.Logger) *Services {
	users := userrepo.NewPostgresRepository(gdb)
	orgs := orgrepo.NewPostgresRepository(gdb)
	memberships := membershiprepo.NewPostgresRepository(gdb)
	tx := txn.NewGormRunner(gdb)
	v := validate.New()

	return &Services{
		Auth:        identityservice.NewAuthService(users, tx, hasher, tokens, v, recorder, log),
		Users:       userservice.NewUserService(users, memberships),
		Orgs:        orgservice.NewOrgService(orgs, memberships, tx, v),
		Memberships: membershipservice.NewMembershipService(memberships, orgs, users, v),
	}
}

// Deps returns router dependencies backed by s.
func (s *Services) Deps(tokens *security.TokenProvider, log *zap.Logger) Deps {
	return Deps{
		Log:         log,
		Tokens:      tokens,
		Auth:        s.Auth,
		Users:       s.Users,
		Orgs:        s.Orgs,
		Memberships: s.Memberships,
	}
}

// NewTokenProvider builds the token provider from cfg: RS256/ES256 when a key pair is
// configured, HS256 with JWT_SECRET otherwise.
func NewTokenProvider(cfg *config.Config) (*security.TokenProvider, error) {
	if cfg.UsesKeyPair() {
		priv, pub, err := security.ParseKeyPair(cfg.JWTPrivateKey, cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("jwt keys: %w", err)
		}
		return security.NewTokenProvider(priv, pub, cfg.JWTIssuer, cfg.JWTAudience, security.AccessTokenTTL)
	}
	return security.NewHMACTokenProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, security.AccessTokenTTL)
}
