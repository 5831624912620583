package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/picshare/picshare-api/internal/domain/entity"
	repo "github.com/picshare/picshare-api/internal/domain/repository"
	"github.com/picshare/picshare-api/pkg/mailer"
)

// PasswordHasher is the one-way credential transform. Compare must verify a
// plaintext against a stored hash; per-record salts rule out re-hash-and-equal.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenManager issues and validates session tokens for authenticated subjects.
type TokenManager interface {
	Generate(subject string) (string, error)
	Validate(token string) bool
	Subject(token string) (string, error)
}

// EventPublisher pushes JSON jobs onto the email queue.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserInput is the transfer object for create and update. Password arrives
// as plaintext and is hashed before anything is persisted.
type UserInput struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// UserOutput is the externally visible projection of a user. It never
// carries the password or its hash.
type UserOutput struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toOutput(u *entity.User) UserOutput {
	return UserOutput{ID: u.ID, FullName: u.FullName, Username: u.Username, Email: u.Email}
}

// mapDuplicate translates the store's duplicate sentinels into the
// field-conflict errors this layer raises, so a unique-constraint backstop
// hit is indistinguishable from the up-front existence checks.
func mapDuplicate(err error) error {
	switch {
	case errors.Is(err, repo.ErrDuplicateEmail):
		return &FieldExistsError{Field: "email"}
	case errors.Is(err, repo.ErrDuplicateUsername):
		return &FieldExistsError{Field: "username"}
	}
	return err
}

// Service orchestrates the identity lifecycle and authentication. Rabbit and
// Elasticsearch collaborators are optional; a nil client skips that concern.
type Service struct {
	Repo         repo.UserRepository
	Hasher       PasswordHasher
	Tokens       TokenManager
	Logger       *logrus.Logger
	Pub          EventPublisher
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(r repo.UserRepository, hasher PasswordHasher, tokens TokenManager, logger *logrus.Logger, pub EventPublisher, es *elasticsearch.Client, esUsersIndex string) *Service {
	return &Service{
		Repo:         r,
		Hasher:       hasher,
		Tokens:       tokens,
		Logger:       logger,
		Pub:          pub,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

// Authenticate verifies a username/password pair and issues a session token
// for the username on success. Unknown user and wrong password collapse into
// the same ErrInvalidCredentials; no token is issued on failure.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	if username == "" {
		return "", ErrInvalidCredentials
	}
	u, err := s.Repo.FindByUsername(ctx, username)
	if err != nil || u == nil {
		return "", ErrInvalidCredentials
	}
	if !s.Hasher.Compare(u.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	token, err := s.Tokens.Generate(u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", username).Error("token generation failed")
		}
		return "", err
	}
	return token, nil
}

// CreateUser enforces uniqueness (email before username), hashes the
// password, and persists the new identity. Exactly one write happens on
// success and none on rejection.
func (s *Service) CreateUser(ctx context.Context, in UserInput) (UserOutput, error) {
	if exists, err := s.Repo.ExistsByEmail(ctx, in.Email); err != nil {
		return UserOutput{}, err
	} else if exists {
		return UserOutput{}, &FieldExistsError{Field: "email"}
	}
	if exists, err := s.Repo.ExistsByUsername(ctx, in.Username); err != nil {
		return UserOutput{}, err
	} else if exists {
		return UserOutput{}, &FieldExistsError{Field: "username"}
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return UserOutput{}, err
	}
	u := &entity.User{
		FullName:     in.FullName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return UserOutput{}, mapDuplicate(err)
	}

	s.publishWelcome(ctx, u)
	s.indexUser(ctx, u)
	return toOutput(u), nil
}

// UpdateUser applies full replacement semantics: fullName, username, and
// email are overwritten unconditionally and the password is always re-hashed,
// even when the caller resubmitted the same plaintext. Uniqueness against
// other rows is not re-checked here; the store's unique constraints remain
// the backstop.
func (s *Service) UpdateUser(ctx context.Context, in *UserInput) (UserOutput, error) {
	if in == nil || in.ID == 0 {
		return UserOutput{}, ErrMissingUserID
	}
	u, err := s.Repo.FindByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserOutput{}, &NotFoundError{ID: in.ID}
		}
		return UserOutput{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return UserOutput{}, err
	}
	u.FullName = in.FullName
	u.Username = in.Username
	u.Email = in.Email
	u.PasswordHash = hash
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserOutput{}, &NotFoundError{ID: in.ID}
		}
		return UserOutput{}, mapDuplicate(err)
	}

	s.indexUser(ctx, u)
	return toOutput(u), nil
}

// DeleteUser removes the identity. The existence check runs first so an
// unknown id never reaches the delete primitive.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	exists, err := s.Repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{ID: id}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deindexUser(ctx, id)
	return nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (UserOutput, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserOutput{}, &NotFoundError{ID: id}
		}
		return UserOutput{}, err
	}
	return toOutput(u), nil
}

// FindAll returns every user projection in store order. An empty store
// yields an empty slice, not an error.
func (s *Service) FindAll(ctx context.Context) ([]UserOutput, error) {
	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserOutput, 0, len(users))
	for i := range users {
		out = append(out, toOutput(&users[i]))
	}
	return out, nil
}

func (s *Service) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:      u.Email,
		Subject: "Welcome to PicShare",
		Text:    "Hi " + u.FullName + ", your account @" + u.Username + " is ready.",
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("username", u.Username).Warn("welcome email enqueue failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"full_name":  u.FullName,
		"email":      u.Email,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESUsersIndex,
		DocumentID: strconv.FormatInt(u.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

func (s *Service) deindexUser(ctx context.Context, id int64) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchUsers performs a simple multi_match search on username and full name.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "full_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
