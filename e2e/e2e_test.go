//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"family-journal-go/internal/aigateway"
	"family-journal-go/internal/config"
	"family-journal-go/internal/db"
	childdomain "family-journal-go/internal/domain/child"
	drawingdomain "family-journal-go/internal/domain/drawing"
	familydomain "family-journal-go/internal/domain/family"
	insightsdomain "family-journal-go/internal/domain/insights"
	notedomain "family-journal-go/internal/domain/note"
	notiondomain "family-journal-go/internal/domain/notion"
	userdomain "family-journal-go/internal/domain/user"
	"family-journal-go/internal/notionapi"
	childrepo "family-journal-go/internal/repository/postgres/child"
	drawingrepo "family-journal-go/internal/repository/postgres/drawing"
	familyrepo "family-journal-go/internal/repository/postgres/family"
	insightsrepo "family-journal-go/internal/repository/postgres/insights"
	noterepo "family-journal-go/internal/repository/postgres/note"
	notionrepo "family-journal-go/internal/repository/postgres/notion"
	userrepo "family-journal-go/internal/repository/postgres/user"
	"family-journal-go/internal/transport/httpserver"
	"family-journal-go/internal/transport/httpserver/handler"
	"family-journal-go/pkg/logger"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	authServer := newAuthServer(t)
	log := logger.NewNop()

	cfg := config.Config{
		PublicBaseURL:  "https://app.example.com",
		AllowedOrigins: []string{"*"},
		DB:             config.DBConfig{DSN: dsn},
		Supabase: config.SupabaseConfig{
			URL:            authServer.URL,
			PublishableKey: "test-key",
			AuthTimeout:    2 * time.Second,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	authz, err := familydomain.NewAuthorizer()
	if err != nil {
		t.Fatalf("authorizer: %v", err)
	}

	ai := aigateway.New(config.AIConfig{})

	families := familydomain.NewService(familyrepo.NewPostgres(dbConn), authz, cfg.PublicBaseURL, 0)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	children := childdomain.NewService(childrepo.NewPostgres(dbConn))
	notes := notedomain.NewService(noterepo.NewPostgres(dbConn))
	drawings := drawingdomain.NewService(drawingrepo.NewPostgres(dbConn), ai, log)
	insights := insightsdomain.NewService(insightsrepo.NewPostgres(dbConn), ai)
	notion := notiondomain.NewService(notionrepo.NewPostgres(dbConn), notiondomain.Config{}, notionapi.New("", 0))

	handlers := handler.New(families, children, notes, drawings, insights, notion, log)

	router := httpserver.NewRouter(cfg, handlers, users)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

// newAuthServer answers like Supabase's /auth/v1/user: the bearer token is
// used as the user id, and the email is derived from it.
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		payload := map[string]any{
			"id":    token,
			"email": strings.ReplaceAll(token, "00000000-0000-0000-0000-00000000000", "user") + "@example.com",
			"user_metadata": map[string]any{
				"name":       "User " + token,
				"avatar_url": "https://example.com/avatar.png",
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE note_children, notes, drawings, children, family_invitations, family_members, families, user_profiles, notion_connections, notion_oauth_states RESTART IDENTITY CASCADE",
	).Error
}

const (
	ownerToken  = "00000000-0000-0000-0000-000000000001"
	memberToken = "00000000-0000-0000-0000-000000000002"
)

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestE2EHealth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, _ := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request: expected 401, got %d", resp.StatusCode)
	}
}

func TestE2EInvitationLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodPost, base+"/families", ownerToken, map[string]string{"name": "The Tests"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create family: expected 201, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/invitations", ownerToken, map[string]string{"email": "user2@example.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create invitation: expected 200, got %d: %s", resp.StatusCode, body)
	}

	var created struct {
		Success        bool   `json:"success"`
		InvitationLink string `json:"invitation_link"`
		Invitation     struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"invitation"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode invitation: %v", err)
	}
	if !created.Success || created.Invitation.Status != "pending" {
		t.Fatalf("unexpected invitation response: %s", body)
	}

	// A duplicate invite to the same address is a state conflict, not a new invitation.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/invitations", ownerToken, map[string]string{"email": "user2@example.com"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate invitation: expected 400, got %d: %s", resp.StatusCode, body)
	}
	var dup errorEnvelope
	if err := json.Unmarshal(body, &dup); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if dup.Error.Code != "invitation_exists" {
		t.Fatalf("duplicate invitation: expected invitation_exists, got %q", dup.Error.Code)
	}

	idx := strings.Index(created.InvitationLink, "token=")
	if idx < 0 {
		t.Fatalf("invitation link missing token: %s", created.InvitationLink)
	}
	token := created.InvitationLink[idx+len("token="):]

	// Wrong recipient is rejected.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/invitations/accept", ownerToken, map[string]string{"token": token})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("wrong recipient: expected 403, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/invitations/accept", memberToken, map[string]string{"token": token})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d: %s", resp.StatusCode, body)
	}

	// The token is spent.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/invitations/accept", memberToken, map[string]string{"token": token})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("re-accept: expected 400, got %d: %s", resp.StatusCode, body)
	}
	var failure errorEnvelope
	if err := json.Unmarshal(body, &failure); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if failure.Error.Code != "already_accepted" {
		t.Fatalf("re-accept: expected already_accepted, got %q", failure.Error.Code)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/families/me/members", ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list members: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var members struct {
		Members []struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		} `json:"members"`
	}
	if err := json.Unmarshal(body, &members); err != nil {
		t.Fatalf("decode members: %v", err)
	}
	if len(members.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members.Members))
	}

	// The new member cannot invite.
	resp, body = requestJSON(t, client, http.MethodPost, base+"/invitations", memberToken, map[string]string{"email": "user3@example.com"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("member invite: expected 403, got %d: %s", resp.StatusCode, body)
	}
}

func TestE2EChildrenAndNotes(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodPost, base+"/families", ownerToken, map[string]string{"name": "The Tests"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create family: expected 201, got %d: %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/children", ownerToken, map[string]string{
		"name":      "Mia",
		"birthdate": "2020-05-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create child: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var child struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &child); err != nil {
		t.Fatalf("decode child: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/notes", ownerToken, map[string]any{
		"transcript": "Mia built a tower #milestone",
		"child_ids":  []string{child.ID},
		"sentiment":  "positive",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create note: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var note struct {
		ID       string   `json:"id"`
		Tags     []string `json:"tags"`
		ChildIDs []string `json:"child_ids"`
	}
	if err := json.Unmarshal(body, &note); err != nil {
		t.Fatalf("decode note: %v", err)
	}
	if len(note.Tags) != 1 || note.Tags[0] != "milestone" {
		t.Fatalf("expected hashtag extracted into tags, got %v", note.Tags)
	}
	if len(note.ChildIDs) != 1 || note.ChildIDs[0] != child.ID {
		t.Fatalf("expected child link, got %v", note.ChildIDs)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/notes?child_id="+child.ID, ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list notes: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var list struct {
		Notes []struct {
			ID string `json:"id"`
		} `json:"notes"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode notes: %v", err)
	}
	if len(list.Notes) != 1 || list.Notes[0].ID != note.ID {
		t.Fatalf("expected the created note, got %+v", list.Notes)
	}
}
