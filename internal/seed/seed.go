// Package seed loads tenants, plans, queues and agents from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmnegociosdigitais/crmdesk/internal/auth"
	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
)

// File is the document layout of a seed file.
type File struct {
	Plans   []Plan   `yaml:"plans"`
	Clients []Client `yaml:"clients"`
	Queues  []Queue  `yaml:"queues"`
	Users   []User   `yaml:"users"`
}

type Plan struct {
	ID                 string `yaml:"id"`
	Name               string `yaml:"name"`
	MaxKanbanColumns   int    `yaml:"maxKanbanColumns"`
	CanCustomizeKanban bool   `yaml:"canCustomizeKanban"`
}

type Client struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	PlanID string `yaml:"plan"`
}

type Queue struct {
	Name string `yaml:"name"`
	// Active defaults to true when omitted.
	Active *bool `yaml:"active"`
}

type User struct {
	ClientID   string  `yaml:"client"`
	Name       string  `yaml:"name"`
	Email      string  `yaml:"email"`
	Password   string  `yaml:"password"`
	Role       string  `yaml:"role"`
	Department *string `yaml:"department"`
}

// Result counts what Apply wrote.
type Result struct {
	Plans   int
	Clients int
	Queues  int
	Users   int
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &file, nil
}

// Apply writes file into store in one transaction. Plans and clients are
// upserted; queues and users are created only when their name or email is
// not taken, so running Apply twice is harmless.
func Apply(ctx context.Context, store repository.Store, file *File, bcryptCost int, clk clock.Clock) (Result, error) {
	if clk == nil {
		clk = clock.Real()
	}
	var result Result
	err := store.WithTx(ctx, func(tx repository.Store) error {
		for _, p := range file.Plans {
			if strings.TrimSpace(p.ID) == "" {
				return errors.New("plan without id")
			}
			plan := domain.Plan{ID: p.ID, Name: p.Name, MaxKanbanColumns: p.MaxKanbanColumns, CanCustomizeKanban: p.CanCustomizeKanban}
			if err := tx.Plans().UpsertPlan(ctx, &plan); err != nil {
				return fmt.Errorf("plan %s: %w", p.ID, err)
			}
			result.Plans++
		}
		for _, c := range file.Clients {
			if strings.TrimSpace(c.ID) == "" {
				return errors.New("client without id")
			}
			client := domain.Client{ID: c.ID, Name: c.Name, PlanID: c.PlanID}
			if err := tx.Plans().UpsertClient(ctx, &client); err != nil {
				return fmt.Errorf("client %s: %w", c.ID, err)
			}
			result.Clients++
		}
		for _, q := range file.Queues {
			created, err := applyQueue(ctx, tx, q, clk)
			if err != nil {
				return fmt.Errorf("queue %s: %w", q.Name, err)
			}
			if created {
				result.Queues++
			}
		}
		for _, u := range file.Users {
			created, err := applyUser(ctx, tx, u, bcryptCost, clk)
			if err != nil {
				return fmt.Errorf("user %s: %w", u.Email, err)
			}
			if created {
				result.Users++
			}
		}
		return nil
	})
	return result, err
}

func applyQueue(ctx context.Context, tx repository.Store, q Queue, clk clock.Clock) (bool, error) {
	name := strings.TrimSpace(q.Name)
	if name == "" {
		return false, errors.New("queue without name")
	}
	_, err := tx.Queues().GetByName(ctx, name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	active := q.Active == nil || *q.Active
	now := clk.Now()
	return true, tx.Queues().Create(ctx, &domain.Queue{Name: name, IsActive: active, CreatedAt: now, UpdatedAt: now})
}

func applyUser(ctx context.Context, tx repository.Store, u User, bcryptCost int, clk clock.Clock) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if email == "" {
		return false, errors.New("user without email")
	}
	_, err := tx.Users().GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	role := domain.UserRole(strings.ToUpper(u.Role))
	if role == "" {
		role = domain.UserRoleAgent
	}
	if !role.Valid() {
		return false, fmt.Errorf("invalid role %q", u.Role)
	}
	if err := auth.ValidatePassword(u.Password); err != nil {
		return false, fmt.Errorf("user %s: %w", email, err)
	}
	hash, err := auth.HashPassword(u.Password, bcryptCost)
	if err != nil {
		return false, err
	}
	now := clk.Now()
	return true, tx.Users().Create(ctx, &domain.User{
		ClientID:     u.ClientID,
		Name:         u.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   u.Department,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
