package bootstrap

import (
	"errors"

	"github.com/memodb-io/docledger/internal/config"
	"github.com/memodb-io/docledger/internal/middleware"
	"github.com/memodb-io/docledger/internal/pkg/utils/secrets"
	"github.com/memodb-io/docledger/internal/pkg/utils/tokens"
	"go.uber.org/zap"
)

var ErrCredentialMismatch = errors.New("root.apitokenhashphc does not match root.apibearertoken")

// NewServiceCredential derives the API credential from the root config. An
// unconfigured token yields a credential that rejects every request.
func NewServiceCredential(cfg *config.Config, log *zap.Logger) (*middleware.ServiceCredential, error) {
	secret := cfg.Root.ApiBearerToken
	pepper := cfg.Root.SecretPepper

	if secret == "" || pepper == "" {
		log.Warn("root api token or pepper not configured, /api/v1 will reject all requests")
		return &middleware.ServiceCredential{Prefix: cfg.Root.ApiBearerTokenPrefix}, nil
	}

	cred := &middleware.ServiceCredential{
		Prefix:    cfg.Root.ApiBearerTokenPrefix,
		Pepper:    pepper,
		Lookup:    tokens.HMAC256Hex(pepper, secret),
		PHC:       cfg.Root.ApiTokenHashPHC,
		VerifyPHC: cfg.Root.EnableArgon2Verification,
	}

	switch {
	case cred.PHC != "":
		ok, err := secrets.VerifySecret(secret, pepper, cred.PHC)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCredentialMismatch
		}
	case cred.VerifyPHC:
		phc, err := secrets.HashSecret(secret, pepper)
		if err != nil {
			return nil, err
		}
		cred.PHC = phc
		log.Info("root.apitokenhashphc not set, derived from root.apibearertoken")
	}

	log.Sugar().Infow("service credential ready", "prefix", cred.Prefix, "argon2", cred.VerifyPHC)
	return cred, nil
}
