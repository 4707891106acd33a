// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package credential keeps the account store: a YAML mapping of usernames to
// bcrypt hashes, loaded on every call and rewritten whole on every signup.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/alibaba/opensandbox/cmsd/pkg/log"
)

const minPasswordLength = 5

// Store is the file-backed account store. It holds no state between calls;
// two concurrent signups race and the last write wins.
type Store struct {
	path string
	cost int
}

type Option func(*Store)

// WithCost overrides the bcrypt cost used for new hashes.
func WithCost(cost int) Option {
	return func(s *Store) {
		s.cost = cost
	}
}

func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Validate reports whether password matches the stored hash of username.
// Unknown users and wrong passwords look the same to the caller.
func (s *Store) Validate(username, password string) bool {
	users, err := s.load()
	if err != nil {
		log.Error("failed to load credentials: %v", err)
		return false
	}

	hash, ok := users[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Exists reports whether username has an account.
func (s *Store) Exists(username string) (bool, error) {
	users, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := users[username]
	return ok, nil
}

// SignupError returns the first reason the signup form is rejected, or "".
func (s *Store) SignupError(username, pass1, pass2 string) (string, error) {
	if username == "" {
		return "You must enter a new username.", nil
	}

	exists, err := s.Exists(username)
	if err != nil {
		return "", err
	}

	switch {
	case exists:
		return "This username already exists. Pick another one!", nil
	case pass1 != pass2:
		return "Entered passwords do not match.", nil
	case utf8.RuneCountInString(pass1) < minPasswordLength:
		return "The password must be 5 or more characters.", nil
	}
	return "", nil
}

// Create hashes password and rewrites the store with the new account added.
// An existing account of the same name is replaced.
func (s *Store) Create(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users, err := s.load()
	if err != nil {
		return err
	}
	users[username] = string(hash)

	data, err := yaml.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	users := map[string]string{}
	if err := yaml.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", s.path, err)
	}
	if users == nil {
		users = map[string]string{}
	}
	return users, nil
}
