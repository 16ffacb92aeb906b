package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"spark-quiz/internal/domain"
)

// IdentityAPI is the slice of the backend the validator needs.
type IdentityAPI interface {
	ValidateToken(ctx context.Context, token string) (domain.Identity, error)
}

// Validator exchanges a stored credential for a confirmed identity. Policy is
// strict fail-closed: a credential the backend cannot confirm is cleared from
// the store and never trusted.
type Validator struct {
	api   IdentityAPI
	store TokenStore
	log   *zap.Logger
}

func NewValidator(api IdentityAPI, store TokenStore, log *zap.Logger) *Validator {
	return &Validator{api: api, store: store, log: log}
}

// Validate confirms the credential against the backend. The second return is
// true only for a confirmed identity. A cancelled context discards the run
// without touching any state; every other failure clears the token store.
func (v *Validator) Validate(ctx context.Context, credential string) (domain.Identity, bool) {
	if credential == "" {
		return domain.Identity{}, false
	}
	identity, err := v.api.ValidateToken(ctx, credential)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			// Torn down mid-flight: the result is discarded, the stored
			// credential keeps whatever standing it had.
			return domain.Identity{}, false
		}
		v.log.Warn("stored credential rejected, clearing it", zap.Error(err))
		if clearErr := v.store.Clear(); clearErr != nil {
			v.log.Warn("failed to clear token store", zap.Error(clearErr))
		}
		return domain.Identity{}, false
	}
	return identity, true
}
