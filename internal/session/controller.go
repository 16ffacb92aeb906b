package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"spark-quiz/internal/api"
	"spark-quiz/internal/domain"
)

// Placeholder profile used when a freshly issued credential proves login
// succeeded but the follow-up identity read failed.
const (
	degradedEmail    = "admin@quiz.local"
	degradedFullName = "Administrator"
)

// AuthAPI is the slice of the backend the controller needs.
type AuthAPI interface {
	IdentityAPI
	Login(ctx context.Context, username, password string) (api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Me(ctx context.Context, token string) (domain.Identity, error)
}

// Controller owns the client auth state: the adopted credential, the resolved
// identity and the startup-loading flag. All mutations are serialized and
// guarded by a generation counter so a stale network completion can never
// overwrite state established by a newer operation.
type Controller struct {
	api       AuthAPI
	store     TokenStore
	validator *Validator
	log       *zap.Logger

	// lifecycle context; cancelled by Close, aborting in-flight requests.
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	credential  string
	identity    domain.Identity
	hasIdentity bool
	loading     bool
	gen         uint64
}

// NewController loads any persisted credential and returns a controller in
// the loading state. Call Bootstrap to resolve it.
func NewController(authAPI AuthAPI, store TokenStore, log *zap.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		api:       authAPI,
		store:     store,
		validator: NewValidator(authAPI, store, log),
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		loading:   true,
	}
	c.credential, _ = store.Load()
	return c
}

// Close tears the controller down; in-flight validation or identity requests
// are aborted and their results discarded.
func (c *Controller) Close() { c.cancel() }

// Bootstrap runs the session validator against the stored credential. With
// no credential it completes immediately as unauthenticated; otherwise the
// credential is confirmed or discarded (fail-closed). Safe to run in a
// goroutine; a concurrent login supersedes it.
func (c *Controller) Bootstrap() {
	c.mu.Lock()
	credential := c.credential
	gen := c.gen
	c.mu.Unlock()

	if credential == "" {
		c.finish(gen, "", domain.Identity{}, false)
		return
	}

	identity, ok := c.validator.Validate(c.ctx, credential)
	if c.ctx.Err() != nil {
		return // torn down; discard
	}
	if !ok {
		c.finish(gen, "", domain.Identity{}, false)
		return
	}
	c.finish(gen, credential, identity, true)
}

// finish applies a validation outcome unless a newer operation superseded it.
func (c *Controller) finish(gen uint64, credential string, identity domain.Identity, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.credential = credential
	c.identity = identity
	c.hasIdentity = ok
	c.loading = false
}

// Login authenticates and adopts the issued credential. Success is defined
// by credential issuance: if the follow-up identity read fails, a degraded
// placeholder identity is installed and Login still returns nil.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return &domain.ValidationError{Field: "username", Message: "username is required"}
	}
	if password == "" {
		return &domain.ValidationError{Field: "password", Message: "password is required"}
	}

	resp, err := c.api.Login(ctx, username, password)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return err
		}
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return &domain.AuthRejectedError{Detail: apiErr.Detail}
		}
		return err
	}
	if resp.AccessToken == "" {
		// Contract violation by the backend: a success status with no
		// token sets no state, and any previously stored credential stays.
		return domain.ErrMissingToken
	}

	// Adopt the credential before the identity read so that call carries it,
	// and bump the generation so any in-flight validation is superseded.
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.credential = resp.AccessToken
	c.mu.Unlock()
	if err := c.store.Save(resp.AccessToken); err != nil {
		c.log.Warn("failed to persist credential", zap.Error(err))
	}

	identity, err := c.api.Me(ctx, resp.AccessToken)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return err
		}
		// The credential itself was just issued, which is proof of a
		// successful login; don't deny access over a secondary read
		// failure. Keep the degradation diagnosable.
		c.log.Warn("identity read failed after login, using placeholder identity",
			zap.String("username", username), zap.Error(err))
		identity = domain.Identity{
			Username: username,
			Email:    degradedEmail,
			FullName: degradedFullName,
			Degraded: true,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil // superseded by a newer operation; drop this result
	}
	c.identity = identity
	c.hasIdentity = true
	c.loading = false
	return nil
}

// Register validates the account fields locally, creates the account, then
// logs in with the same credentials: registration succeeds only once the new
// account can actually authenticate.
func (c *Controller) Register(ctx context.Context, req api.RegisterRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return &domain.ValidationError{Field: "username", Message: "username is required"}
	}
	if req.Password == "" {
		return &domain.ValidationError{Field: "password", Message: "password is required"}
	}
	if strings.TrimSpace(req.Email) == "" {
		return &domain.ValidationError{Field: "email", Message: "email is required"}
	}
	if strings.TrimSpace(req.FullName) == "" {
		return &domain.ValidationError{Field: "full_name", Message: "full name is required"}
	}
	if len(req.Password) < 6 {
		return &domain.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}

	if err := c.api.Register(ctx, req); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return err
		}
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return &domain.AuthRejectedError{Detail: apiErr.Detail}
		}
		return err
	}
	return c.Login(ctx, req.Username, req.Password)
}

// Logout clears identity and credential synchronously; no network call.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.gen++
	c.credential = ""
	c.identity = domain.Identity{}
	c.hasIdentity = false
	c.loading = false
	c.mu.Unlock()
	if err := c.store.Clear(); err != nil {
		c.log.Warn("failed to clear token store", zap.Error(err))
	}
}

// Identity returns the resolved identity, if any.
func (c *Controller) Identity() (domain.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, c.hasIdentity
}

// IsAuthenticated reports whether an identity is set.
func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasIdentity
}

// IsLoading reports whether startup validation is still unresolved.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Credential returns the adopted bearer credential, if any.
func (c *Controller) Credential() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credential, c.credential != ""
}
