// Package repository owns the in-memory user directory. It enforces the
// storage-level invariants (email and referral-code uniqueness, monotonic
// id allocation) that a relational backend would express as constraints.
package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/referral-service/internal/config"
	"github.com/spec-kit/referral-service/internal/domain"
	"github.com/spec-kit/referral-service/pkg/util"
)

// Directory is the process-wide collection of registered users. All state is
// volatile: a restart resets it to the seed set. A single RWMutex guards
// every mutation so that the uniqueness checks, the append, and the referrer
// credit of a registration observe and produce a consistent view.
type Directory struct {
	mu      sync.RWMutex
	users   []*domain.User
	byEmail map[string]*domain.User
	byCode  map[string]*domain.User
	nextID  int64
	cfg     config.ReferralConfig
}

// SeedUser describes one pre-provisioned demo user.
type SeedUser struct {
	Name         string
	Email        string
	ReferralCode string
	Points       int64
}

// DefaultSeed returns the demo users provisioned at startup.
func DefaultSeed() []SeedUser {
	return []SeedUser{
		{Name: "Alice Johnson", Email: "alice@example.com", ReferralCode: "ABC123", Points: 0},
		{Name: "Bob Smith", Email: "bob@example.com", ReferralCode: "DEF456", Points: 20},
		{Name: "Carol White", Email: "carol@example.com", ReferralCode: "GHI789", Points: 50},
	}
}

// NewDirectory constructs a directory pre-populated with the given seed
// users. Seed entries must already satisfy the uniqueness and code-format
// invariants; a violation is a programming error and fails construction.
func NewDirectory(cfg config.ReferralConfig, seed []SeedUser) (*Directory, error) {
	d := &Directory{
		byEmail: make(map[string]*domain.User),
		byCode:  make(map[string]*domain.User),
		nextID:  1,
		cfg:     cfg,
	}

	now := time.Now()
	for _, s := range seed {
		email := strings.ToLower(strings.TrimSpace(s.Email))
		code := strings.ToUpper(strings.TrimSpace(s.ReferralCode))
		if len(code) != cfg.CodeLength {
			return nil, fmt.Errorf("seed user %q: referral code %q must be %d characters", s.Email, code, cfg.CodeLength)
		}
		if _, exists := d.byEmail[email]; exists {
			return nil, fmt.Errorf("seed user %q: duplicate email", s.Email)
		}
		if _, exists := d.byCode[code]; exists {
			return nil, fmt.Errorf("seed user %q: duplicate referral code %q", s.Email, code)
		}
		user := &domain.User{
			ID:           d.nextID,
			Name:         strings.TrimSpace(s.Name),
			Email:        email,
			ReferralCode: code,
			Points:       s.Points,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		d.nextID++
		d.users = append(d.users, user)
		d.byEmail[email] = user
		d.byCode[code] = user
	}

	return d, nil
}

// Register atomically runs the storage half of the registration workflow:
// email-conflict check, referrer resolution, code generation, append, and
// referrer credit. name and email must already be sanitized; referrerCode is
// empty when the registrant supplied none. Returns copies of the new user and
// of the credited referrer (nil when no code was supplied).
func (d *Directory) Register(name, email, referrerCode string) (*domain.User, *domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if _, exists := d.byEmail[email]; exists {
		return nil, nil, util.NewConflict("Email already exists", map[string]any{"email": email})
	}

	var referrer *domain.User
	if referrerCode != "" {
		code := strings.ToUpper(strings.TrimSpace(referrerCode))
		ref, exists := d.byCode[code]
		if !exists {
			return nil, nil, util.NewBadReference("Invalid referral code", map[string]any{"referralCode": code})
		}
		referrer = ref
	}

	code, err := d.generateCodeLocked()
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           d.nextID,
		Name:         name,
		Email:        email,
		ReferralCode: code,
		Points:       d.cfg.InitialPoints,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	d.nextID++
	d.users = append(d.users, user)
	d.byEmail[email] = user
	d.byCode[code] = user

	// The new user is in the directory; crediting the referrer cannot fail
	// because the lookup above already resolved them under the same lock.
	var referrerCopy *domain.User
	if referrer != nil {
		referrer.Points += d.cfg.Bonus
		referrer.UpdatedAt = now
		c := *referrer
		referrerCopy = &c
	}

	u := *user
	return &u, referrerCopy, nil
}

// generateCodeLocked produces a fresh unique referral code from a
// cryptographically random source. Collisions are vanishingly rare but the
// bounded retry is a correctness requirement: exhausting it means the code
// space is spent or the directory is corrupt, and that surfaces as an
// internal fault rather than silent looping.
func (d *Directory) generateCodeLocked() (string, error) {
	raw := make([]byte, (d.cfg.CodeLength+1)/2)
	for attempt := 0; attempt < d.cfg.MaxCodeAttempts; attempt++ {
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		code := strings.ToUpper(hex.EncodeToString(raw))
		if len(code) < d.cfg.CodeLength {
			code += strings.Repeat("0", d.cfg.CodeLength-len(code))
		}
		code = code[:d.cfg.CodeLength]
		if _, taken := d.byCode[code]; !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("referral code space exhausted after %d attempts", d.cfg.MaxCodeAttempts)
}

// FindByEmail looks a user up by email, case-insensitively.
func (d *Directory) FindByEmail(email string) (*domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, false
	}
	u := *user
	return &u, true
}

// FindByReferralCode looks a user up by referral code, case-insensitively.
func (d *Directory) FindByReferralCode(code string) (*domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, false
	}
	u := *user
	return &u, true
}

// GetByID looks a user up by id.
func (d *Directory) GetByID(id int64) (*domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, user := range d.users {
		if user.ID == id {
			u := *user
			return &u, true
		}
	}
	return nil, false
}

// ListAll returns copies of all users in registration order.
func (d *Directory) ListAll() []domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.User, 0, len(d.users))
	for _, user := range d.users {
		out = append(out, *user)
	}
	return out
}

// Count returns the number of registered users.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// UpdatePoints adds delta (which may be negative) to the user's points and
// refreshes their UpdatedAt. No floor is applied; callers decide whether
// negative balances matter. Returns a copy of the updated user.
func (d *Directory) UpdatePoints(id int64, delta int64) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, user := range d.users {
		if user.ID == id {
			user.Points += delta
			user.UpdatedAt = time.Now()
			u := *user
			return &u, nil
		}
	}
	return nil, util.NewNotFound("user", map[string]any{"id": id})
}

// Stats computes directory-wide point totals and the top five users by
// descending points. The sort is deliberately unstable on ties.
func (d *Directory) Stats() domain.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := domain.Stats{TotalUsers: len(d.users)}
	for _, user := range d.users {
		stats.TotalPoints += user.Points
	}
	if stats.TotalUsers > 0 {
		stats.AveragePoints = int64(math.Round(float64(stats.TotalPoints) / float64(stats.TotalUsers)))
	}

	ranked := make([]*domain.User, len(d.users))
	copy(ranked, d.users)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	top := len(ranked)
	if top > 5 {
		top = 5
	}
	stats.TopUsers = make([]domain.TopUser, 0, top)
	for _, user := range ranked[:top] {
		stats.TopUsers = append(stats.TopUsers, domain.TopUser{
			Name:   user.Name,
			Email:  user.Email,
			Points: user.Points,
		})
	}
	return stats
}
