// Package backendtest runs an in-memory stand-in for the remote backend:
// the auth endpoints, the REST table surface, and just enough storage to
// exercise the gateway against real HTTP round trips.
package backendtest

import (
	"encoding/json"
	"net"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type credential struct {
	userID uuid.UUID
	hash   []byte
}

type row = map[string]any

// Backend is one fake backend instance bound to a loopback port.
type Backend struct {
	app       *fiber.App
	url       string
	jwtSecret []byte

	// CreateProfileRows mirrors the backend trigger that inserts a users
	// row at sign-up. Disable to provoke the profile-not-found path.
	CreateProfileRows bool

	mu     sync.Mutex
	creds  map[string]credential
	tables map[string][]row
}

// Start boots the fake backend and registers shutdown with the test.
func Start(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		jwtSecret:         []byte("backendtest-secret"),
		CreateProfileRows: true,
		creds:             make(map[string]credential),
		tables:            make(map[string][]row),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/auth/v1/signup", b.handleSignup)
	app.Post("/auth/v1/token", b.handleToken)
	app.Post("/auth/v1/logout", b.handleLogout)
	app.Get("/rest/v1/:table", b.handleList)
	app.Post("/rest/v1/:table", b.handleInsert)
	app.Patch("/rest/v1/:table", b.handlePatch)
	b.app = app

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("backendtest: listen: %v", err)
	}
	b.url = "http://" + ln.Addr().String()

	go func() {
		if err := app.Listener(ln); err != nil {
			// Listener returns on Shutdown; anything else is a test bug
			// that will show up as connection failures.
			_ = err
		}
	}()
	t.Cleanup(func() { _ = app.Shutdown() })

	return b
}

// URL returns the backend's base URL.
func (b *Backend) URL() string {
	return b.url
}

// RegisterUser seeds a credential pair and, when id is non-nil, a profile
// row owned by it. Returns the auth identity.
func (b *Backend) RegisterUser(t *testing.T, email, password string, profile row) uuid.UUID {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("backendtest: hash password: %v", err)
	}

	userID := uuid.New()
	if idRaw, ok := profile["id"]; ok {
		parsed, err := uuid.Parse(idRaw.(string))
		if err != nil {
			t.Fatalf("backendtest: profile id: %v", err)
		}
		userID = parsed
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.creds[strings.ToLower(email)] = credential{userID: userID, hash: hash}
	if profile != nil {
		profile["id"] = userID.String()
		if _, ok := profile["created_at"]; !ok {
			profile["created_at"] = time.Now().UTC().Format(time.RFC3339Nano)
		}
		b.tables["users"] = append(b.tables["users"], profile)
	}
	return userID
}

// Seed appends an entity to a table, going through its wire encoding.
func (b *Backend) Seed(t *testing.T, table string, entity any) {
	t.Helper()

	data, err := json.Marshal(entity)
	if err != nil {
		t.Fatalf("backendtest: seed %s: %v", table, err)
	}
	var r row
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("backendtest: seed %s: %v", table, err)
	}
	b.SeedRaw(table, r)
}

// SeedRaw appends a raw wire row, malformed rows included.
func (b *Backend) SeedRaw(table string, r row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[table] = append(b.tables[table], r)
}

// Rows returns a copy of a table's rows for assertions.
func (b *Backend) Rows(table string) []row {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]row, len(b.tables[table]))
	for i, r := range b.tables[table] {
		clone := make(row, len(r))
		for k, v := range r {
			clone[k] = v
		}
		out[i] = clone
	}
	return out
}

func (b *Backend) handleSignup(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid payload"})
	}

	email := strings.ToLower(req.Email)

	b.mu.Lock()
	if _, exists := b.creds[email]; exists {
		b.mu.Unlock()
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "email already registered"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		b.mu.Unlock()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "hash failure"})
	}
	userID := uuid.New()
	b.creds[email] = credential{userID: userID, hash: hash}
	if b.CreateProfileRows {
		b.tables["users"] = append(b.tables["users"], row{
			"id":         userID.String(),
			"email":      req.Email,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
	b.mu.Unlock()

	return b.tokenResponse(c, userID, req.Email)
}

func (b *Backend) handleToken(c *fiber.Ctx) error {
	if c.Query("grant_type") != "password" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unsupported grant type"})
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid payload"})
	}

	b.mu.Lock()
	cred, ok := b.creds[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(cred.hash, []byte(req.Password)) != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid login credentials"})
	}

	return b.tokenResponse(c, cred.userID, req.Email)
}

func (b *Backend) handleLogout(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func (b *Backend) tokenResponse(c *fiber.Ctx, userID uuid.UUID, email string) error {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "token signing failure"})
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   3600,
		"user": fiber.Map{
			"id":    userID.String(),
			"email": email,
		},
	})
}

func (b *Backend) handleList(c *fiber.Ctx) error {
	table := c.Params("table")
	filters := eqFilters(c.Queries())

	b.mu.Lock()
	matched := filterRows(b.tables[table], filters)
	b.mu.Unlock()

	if c.Query("order") == "created_at.desc" {
		sortByCreatedAtDesc(matched)
	}
	return c.JSON(matched)
}

func (b *Backend) handleInsert(c *fiber.Ctx) error {
	table := c.Params("table")

	var r row
	if err := json.Unmarshal(c.Body(), &r); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid row payload"})
	}

	b.mu.Lock()
	b.tables[table] = append(b.tables[table], r)
	b.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON([]row{r})
}

func (b *Backend) handlePatch(c *fiber.Ctx) error {
	table := c.Params("table")
	filters := eqFilters(c.Queries())

	var patch row
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid row payload"})
	}

	b.mu.Lock()
	var updated []row
	for _, r := range b.tables[table] {
		if !matches(r, filters) {
			continue
		}
		for k, v := range patch {
			r[k] = v
		}
		updated = append(updated, r)
	}
	b.mu.Unlock()

	if updated == nil {
		updated = []row{}
	}
	return c.JSON(updated)
}

// eqFilters extracts `column=eq.value` query predicates.
func eqFilters(queries map[string]string) map[string]string {
	filters := make(map[string]string)
	for key, value := range queries {
		if rest, ok := strings.CutPrefix(value, "eq."); ok {
			filters[key] = rest
		}
	}
	return filters
}

func filterRows(rows []row, filters map[string]string) []row {
	matched := make([]row, 0, len(rows))
	for _, r := range rows {
		if matches(r, filters) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matches(r row, filters map[string]string) bool {
	for column, want := range filters {
		got, ok := r[column].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func sortByCreatedAtDesc(rows []row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return createdAt(rows[i]).After(createdAt(rows[j]))
	})
}

func createdAt(r row) time.Time {
	raw, _ := r["created_at"].(string)
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
