package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mindcarehq/mindcare/internal/identity/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/clock"
	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/hash"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
	"github.com/mindcarehq/mindcare/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

const testConfig = `
modules:
  identity:
    otp:
      ttl_minutes: 10
      resend_cooldown_seconds: 0
    refresh_token_ttl_days: 7
`

type fakeDB struct {
	mu       sync.Mutex
	users    []entity.User
	profiles map[int64]*entity.Profile
	otps     []entity.EmailOTP
	tokens   []entity.UserRefreshToken

	// beforeWrite runs inside the lock before a conditional OTP update, to
	// simulate a competing request that got there first.
	beforeWrite func(rec *entity.EmailOTP)
	failWith    error
	createErr   error
}

func newFakeDB() *fakeDB {
	return &fakeDB{profiles: map[int64]*entity.Profile{}}
}

func (f *fakeDB) ExistsUserByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) ExistsUserByUsername(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) CreateEmailOTP(_ context.Context, in entity.EmailOTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.otps = append(f.otps, in)
	return nil
}

func (f *fakeDB) latest(match func(entity.EmailOTP) bool) (*entity.EmailOTP, error) {
	var found []entity.EmailOTP
	for _, o := range f.otps {
		if match(o) {
			found = append(found, o)
		}
	}
	if len(found) == 0 {
		return nil, goerror.ErrNotFound
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	rec := found[0]
	return &rec, nil
}

func (f *fakeDB) GetLatestEmailOTP(_ context.Context, email string, p entity.OTPPurpose) (*entity.EmailOTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest(func(o entity.EmailOTP) bool { return o.Email == email && o.Purpose == p })
}

func (f *fakeDB) GetLatestEmailOTPByToken(_ context.Context, tokenHash, email string, p entity.OTPPurpose) (*entity.EmailOTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest(func(o entity.EmailOTP) bool {
		return o.TokenHash == tokenHash && o.Email == email && o.Purpose == p
	})
}

func (f *fakeDB) GetEmailOTPByID(_ context.Context, id int64) (*entity.EmailOTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest(func(o entity.EmailOTP) bool { return o.ID == id })
}

func (f *fakeDB) find(id int64) *entity.EmailOTP {
	for i := range f.otps {
		if f.otps[i].ID == id {
			return &f.otps[i]
		}
	}
	return nil
}

func (f *fakeDB) IncrementEmailOTPAttempts(_ context.Context, id int64, maxAttempts int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.find(id)
	if rec != nil && f.beforeWrite != nil {
		f.beforeWrite(rec)
	}
	if rec == nil || rec.IsVerified || rec.Attempts >= maxAttempts {
		return false, nil
	}
	rec.Attempts++
	return true, nil
}

func (f *fakeDB) MarkEmailOTPVerified(_ context.Context, id int64, maxAttempts int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.find(id)
	if rec != nil && f.beforeWrite != nil {
		f.beforeWrite(rec)
	}
	if rec == nil || rec.Attempts >= maxAttempts {
		return false, nil
	}
	rec.IsVerified = true
	return true, nil
}

func (f *fakeDB) CreateAccount(_ context.Context, in entity.NewAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := -1
	for i, o := range f.otps {
		if o.ID == in.OTPID && o.IsVerified {
			idx = i
		}
	}
	if idx < 0 {
		return goerror.ErrNotFound
	}
	for _, u := range f.users {
		if u.Username == in.User.Username || strings.EqualFold(u.Email, in.User.Email) {
			return goerror.ErrConflict
		}
	}

	f.otps = append(f.otps[:idx], f.otps[idx+1:]...)
	f.users = append(f.users, in.User)
	f.profiles[in.User.ID] = &entity.Profile{
		UserID:    in.User.ID,
		Username:  in.User.Username,
		Email:     in.User.Email,
		FullName:  in.FullName,
		Nickname:  in.Nickname,
		Phone:     in.Phone,
		Age:       in.Age,
		Gender:    in.Gender,
		Timezone:  "UTC",
		Language:  "en",
		CreatedAt: in.User.CreatedAt,
	}
	return nil
}

func (f *fakeDB) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var u entity.User
	for _, x := range f.users {
		if x.ID == in.UserID {
			u = x
		}
	}
	f.tokens = append(f.tokens, entity.UserRefreshToken{RefreshToken: in, Email: u.Email, Role: u.Role})
	return nil
}

func (f *fakeDB) GetUserRefreshToken(_ context.Context, tokenHash string) (*entity.UserRefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.TokenHash == tokenHash {
			return &t, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) RotateRefreshToken(_ context.Context, ro entity.RotateRefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tokens {
		t := &f.tokens[i]
		if t.ID == ro.OldID && t.RevokedAt == nil {
			now := t0
			t.RevokedAt = &now
			f.tokens = append(f.tokens, entity.UserRefreshToken{
				RefreshToken: entity.RefreshToken{
					ID: ro.NewID, UserID: ro.UserID, TokenHash: ro.NewTokenHash, ExpiresAt: ro.NewExpiresAt,
				},
				Email: t.Email,
				Role:  t.Role,
			})
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (f *fakeDB) RevokeRefreshToken(_ context.Context, tokenHash string, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tokens {
		if f.tokens[i].TokenHash == tokenHash && f.tokens[i].UserID == userID {
			now := t0
			f.tokens[i].RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeDB) GetProfile(_ context.Context, userID int64) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeDB) UpdateProfile(_ context.Context, userID int64, patch entity.ProfilePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return goerror.ErrNotFound
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.FullName, patch.FullName)
	set(&p.Nickname, patch.Nickname)
	set(&p.Phone, patch.Phone)
	set(&p.Gender, patch.Gender)
	set(&p.Timezone, patch.Timezone)
	set(&p.Language, patch.Language)
	if patch.Age != nil {
		p.Age = patch.Age
	}
	if patch.NotificationsEnabled != nil {
		p.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.PrefersDarkMode != nil {
		p.PrefersDarkMode = *patch.PrefersDarkMode
	}
	return nil
}

func (f *fakeDB) otp(id int64) entity.EmailOTP {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.find(id)
}

type fakeCache struct {
	mu    sync.Mutex
	until map[string]time.Time
	clock clock.Clocker
}

func (c *fakeCache) ReserveOTPResend(_ context.Context, email string, window time.Duration) (bool, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	if u, ok := c.until[email]; ok && now.Before(u) {
		return false, u.Sub(now), nil
	}
	c.until[email] = now.Add(window)
	return true, 0, nil
}

func (c *fakeCache) ReleaseOTPResend(_ context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.until, email)
	return nil
}

type fakeMessaging struct {
	mu         sync.Mutex
	otps       []OTPRequestedEvent
	registered []UserRegisteredEvent
	fail       bool
}

func (m *fakeMessaging) PublishOTPRequested(_ context.Context, msg OTPRequestedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("broker down")
	}
	m.otps = append(m.otps, msg)
	return nil
}

func (m *fakeMessaging) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("broker down")
	}
	m.registered = append(m.registered, msg)
	return nil
}

type seqCode struct {
	mu    sync.Mutex
	codes []string
	n     int
}

func (s *seqCode) Code() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.codes[s.n%len(s.codes)]
	s.n++
	return c, nil
}

type seqToken struct {
	mu sync.Mutex
	n  int
}

func (s *seqToken) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("token-%02d", s.n)
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

type suite struct {
	uc    *Usecase
	db    *fakeDB
	msg   *fakeMessaging
	clock *clock.Fixed
	hmac  hash.Hash
	code  *seqCode
}

func newSuite(t *testing.T, yaml string) *suite {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	v, err := validator.NewV10()
	require.NoError(t, err)

	j, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "mindcare",
		Audiences: []string{"mindcare-app"},
		TTL:       15 * time.Minute,
	})
	require.NoError(t, err)

	clk := clock.NewFixed(t0)
	s := &suite{
		db:    newFakeDB(),
		msg:   &fakeMessaging{},
		clock: clk,
		hmac:  hash.NewHMACSHA256("otp-secret"),
		code:  &seqCode{codes: []string{"123456"}},
	}
	s.uc = New(Dependency{
		RepoDB:        s.db,
		RepoCache:     &fakeCache{until: map[string]time.Time{}, clock: clk},
		RepoMessaging: s.msg,
		Validator:     v,
		Config:        cfg,
		HMAC:          s.hmac,
		Password:      hash.NewBcrypt(4, ""),
		Code:          s.code,
		Token:         &seqToken{},
		UID:           &seqID{},
		Clock:         clk,
		JWT:           j,
		Instrument:    instrument.NewNoop(),
	})
	return s
}

func authed(userID int64, email string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID, UserEmail: email, Role: "member"})
}

func assertField(t *testing.T, err error, field, msg string) {
	t.Helper()
	require.Error(t, err)
	got, ok := goerror.FieldError(err, field)
	require.True(t, ok, "expected field %q in %v", field, err)
	assert.Equal(t, msg, got)
}

func assertCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()
	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, code, gerr.Code())
}
