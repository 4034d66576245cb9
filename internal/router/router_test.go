package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-adoption-hub/internal/router"
)

type actor struct {
	id   string
	role string
}

var (
	shelterUser  = actor{id: "shelter-user-1", role: "shelter"}
	otherShelter = actor{id: "shelter-user-2", role: "shelter"}
	applicant    = actor{id: "user-1", role: "user"}
	otherUser    = actor{id: "user-2", role: "user"}
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		HoldPetOnSubmit:   true,
		CompletionRetries: 2,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_AdoptionPipeline(t *testing.T) {
	ts := newServer(t)

	// 1) Refugio y mascota
	shelterID := createResource(t, ts.URL, "/shelters", shelterUser, map[string]any{
		"name": "Happy Tails",
		"city": "Lima",
	})
	petID := createResource(t, ts.URL, "/pets", shelterUser, map[string]any{
		"shelter_id":   shelterID,
		"name":         "Milo",
		"species":      "dog",
		"adoption_fee": 150,
	})

	// 2) Solicitud de adopción: la mascota queda pending
	appID := createResource(t, ts.URL, "/adoptions", applicant, submitPayload(petID))
	if got := petStatus(t, ts.URL, petID); got != "pending" {
		t.Fatalf("expected pet pending after submit, got %s", got)
	}

	// 3) Otro usuario no puede pedir una mascota retenida
	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions", otherUser, submitPayload(petID))
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for held pet, got %d body=%s", st, string(body))
		}
	}

	// 4) El solicitante no puede revisar su propia solicitud
	{
		st, _ := doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/status", applicant, map[string]any{
			"status": "under-review",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for applicant review, got %d", st)
		}
	}

	// 5) Salto inválido => 409
	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/status", shelterUser, map[string]any{
			"status": "adoption-completed",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 invalid transition, got %d body=%s", st, string(body))
		}
	}

	// 6) Pipeline hasta adoption-approved; la visita al hogar no se saltea
	move := func(to string) (int, []byte) {
		return doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/status", shelterUser, map[string]any{
			"status": to,
		})
	}
	for _, to := range []string{"under-review", "approved", "meet-completed"} {
		if st, body := move(to); st != http.StatusOK {
			t.Fatalf("expected 200 moving to %s, got %d body=%s", to, st, string(body))
		}
	}
	if st, body := move("adoption-approved"); st != http.StatusConflict {
		t.Fatalf("expected 409 skipping the home visit, got %d body=%s", st, string(body))
	}
	for _, to := range []string{"home-visit-completed", "adoption-approved"} {
		if st, body := move(to); st != http.StatusOK {
			t.Fatalf("expected 200 moving to %s, got %d body=%s", to, st, string(body))
		}
	}

	// Otro refugio no gestiona esta solicitud
	if st, _ := doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/fees", otherShelter, map[string]any{
		"description": "bath",
		"amount":      10,
	}); st != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign shelter, got %d", st)
	}

	// 7) Pago parcial no completa
	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/payments", applicant, map[string]any{
			"amount": 100.10,
			"method": "card",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 partial payment, got %d body=%s", st, string(body))
		}
		app := decodeApplication(t, body)
		if app.Status != "adoption-approved" || app.Fees.PaymentStatus != "partial" {
			t.Fatalf("unexpected app after partial payment: %+v", app)
		}
	}

	// 8) Pago final completa la adopción
	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/payments", applicant, map[string]any{
			"amount": 49.90,
			"method": "cash",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 final payment, got %d body=%s", st, string(body))
		}
		app := decodeApplication(t, body)
		if app.Status != "adoption-completed" || app.Fees.PaymentStatus != "paid" {
			t.Fatalf("unexpected app after full payment: %+v", app)
		}
		if app.Fees.Paid != 150 || app.Fees.Total != 150 {
			t.Fatalf("expected exact totals, got paid=%v total=%v", app.Fees.Paid, app.Fees.Total)
		}
		if len(app.NextStatuses) != 1 || app.NextStatuses[0] != "adoption-returned" {
			t.Fatalf("expected only adoption-returned next, got %v", app.NextStatuses)
		}
	}

	if got := petStatus(t, ts.URL, petID); got != "adopted" {
		t.Fatalf("expected pet adopted, got %s", got)
	}

	// 9) Estadística del refugio
	{
		st, body := doReq(t, ts.URL, "GET", "/shelters/"+shelterID, shelterUser, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get shelter, got %d body=%s", st, string(body))
		}
		var sh struct {
			TotalAdoptions int `json:"total_adoptions"`
		}
		_ = json.Unmarshal(body, &sh)
		if sh.TotalAdoptions != 1 {
			t.Fatalf("expected 1 adoption on shelter, got %d", sh.TotalAdoptions)
		}
	}

	// 10) Mis solicitudes y listado por mascota
	{
		st, body := doReq(t, ts.URL, "GET", "/me/adoptions", applicant, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 my adoptions, got %d", st)
		}
		var items []applicationBody
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].ID != appID {
			t.Fatalf("unexpected my adoptions: %s", string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/adoptions?pet_id="+petID, applicant, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 listing by pet as user, got %d", st)
		}
		st, body := doReq(t, ts.URL, "GET", "/adoptions?pet_id="+petID, shelterUser, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing by pet, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/adoptions?pet_id="+petID, otherShelter, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 listing by pet as foreign shelter, got %d", st)
		}
	}

	// 11) Otro usuario no ve la solicitud
	{
		st, _ := doReq(t, ts.URL, "GET", "/adoptions/"+appID, otherUser, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 viewing foreign application, got %d", st)
		}
	}
}

func TestHTTP_Visits_DriveStatus(t *testing.T) {
	ts := newServer(t)

	shelterID := createResource(t, ts.URL, "/shelters", shelterUser, map[string]any{"name": "Cat Haven"})
	petID := createResource(t, ts.URL, "/pets", shelterUser, map[string]any{
		"shelter_id": shelterID,
		"name":       "Luna",
		"species":    "cat",
	})
	appID := createResource(t, ts.URL, "/adoptions", applicant, submitPayload(petID))

	if st, _ := doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/status", otherShelter, map[string]any{"status": "under-review"}); st != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign shelter review, got %d", st)
	}
	for _, to := range []string{"under-review", "approved"} {
		if st, body := doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/status", shelterUser, map[string]any{"status": to}); st != http.StatusOK {
			t.Fatalf("expected 200 moving to %s, got %d body=%s", to, st, string(body))
		}
	}

	st, body := doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/visits", shelterUser, map[string]any{
		"type":           "meet-and-greet",
		"scheduled_date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 schedule visit, got %d body=%s", st, string(body))
	}
	app := decodeApplication(t, body)
	if app.Status != "approved" || len(app.Visits) != 1 || app.Visits[0].Status != "scheduled" {
		t.Fatalf("unexpected app after scheduling: %+v", app)
	}

	st, body = doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/visits/"+app.Visits[0].ID+"/complete", shelterUser, map[string]any{
		"outcome": "approved",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 complete visit, got %d body=%s", st, string(body))
	}
	app = decodeApplication(t, body)
	if app.Status != "meet-completed" {
		t.Fatalf("expected meet-completed, got %s", app.Status)
	}

	// follow-up fuera de ventana => 409
	st, _ = doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/visits", shelterUser, map[string]any{
		"type":           "follow-up",
		"scheduled_date": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 follow-up before completion, got %d", st)
	}
}

func TestHTTP_Withdraw_ReleasesPet(t *testing.T) {
	ts := newServer(t)

	shelterID := createResource(t, ts.URL, "/shelters", shelterUser, map[string]any{"name": "Dog Rescue"})
	petID := createResource(t, ts.URL, "/pets", shelterUser, map[string]any{
		"shelter_id": shelterID,
		"name":       "Rocky",
	})
	appID := createResource(t, ts.URL, "/adoptions", applicant, submitPayload(petID))

	st, body := doReq(t, ts.URL, "POST", "/adoptions/"+appID+"/status", applicant, map[string]any{
		"status": "withdrawn",
		"notes":  "changed my mind",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 withdraw, got %d body=%s", st, string(body))
	}
	if got := petStatus(t, ts.URL, petID); got != "available" {
		t.Fatalf("expected pet available after withdraw, got %s", got)
	}

	// Ya retirada: otro usuario puede aplicar
	createResource(t, ts.URL, "/adoptions", otherUser, submitPayload(petID))
}

func TestHTTP_Activities_CapacityAndWaitlist(t *testing.T) {
	ts := newServer(t)

	activityID := createResource(t, ts.URL, "/activities", shelterUser, map[string]any{
		"title":        "Adoption day",
		"kind":         "adoption-event",
		"start_time":   time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"max_capacity": 1,
	})

	register := func(a actor) activityBody {
		t.Helper()
		st, body := doReq(t, ts.URL, "POST", "/activities/"+activityID+"/register", a, map[string]any{})
		if st != http.StatusOK {
			t.Fatalf("expected 200 register %s, got %d body=%s", a.id, st, string(body))
		}
		var out activityBody
		_ = json.Unmarshal(body, &out)
		return out
	}

	register(applicant)
	a := register(otherUser)
	if a.Capacity.Current != 1 || a.Capacity.Waitlist != 1 {
		t.Fatalf("expected 1 registered + 1 waitlisted, got %+v", a.Capacity)
	}

	// Registro duplicado => 409
	if st, _ := doReq(t, ts.URL, "POST", "/activities/"+activityID+"/register", applicant, map[string]any{}); st != http.StatusConflict {
		t.Fatalf("expected 409 duplicate registration, got %d", st)
	}

	// Al cancelar el primero, el de la lista de espera sube
	st, body := doReq(t, ts.URL, "DELETE", "/activities/"+activityID+"/register", applicant, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 unregister, got %d body=%s", st, string(body))
	}
	var after activityBody
	_ = json.Unmarshal(body, &after)
	if after.Capacity.Current != 1 || after.Capacity.Waitlist != 0 {
		t.Fatalf("expected promotion, got %+v", after.Capacity)
	}
	promoted := false
	for _, p := range after.Participants {
		if p.UserID == otherUser.id && p.Status == "registered" {
			promoted = true
		}
	}
	if !promoted {
		t.Fatalf("expected %s promoted, body=%s", otherUser.id, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/activities", actor{}, nil)
	if st != http.StatusOK || !strings.Contains(string(body), activityID) {
		t.Fatalf("expected upcoming list to include activity, got %d body=%s", st, string(body))
	}
}

func TestHTTP_Unauthenticated(t *testing.T) {
	ts := newServer(t)

	st, _ := doReq(t, ts.URL, "POST", "/adoptions", actor{}, map[string]any{"pet_id": "x"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor, got %d", st)
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := newServer(t)

	if st, _ := doReq(t, ts.URL, "GET", "/health", actor{}, nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
	st, body := doReq(t, ts.URL, "GET", "/metrics", actor{}, nil)
	if st != http.StatusOK || !strings.Contains(string(body), "go_goroutines") {
		t.Fatalf("expected prometheus output, got %d", st)
	}
}

// -------------------------
// Helpers
// -------------------------

type applicationBody struct {
	ID           string   `json:"id"`
	Status       string   `json:"status"`
	NextStatuses []string `json:"next_statuses"`
	Visits       []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"visits"`
	Fees struct {
		Total         float64 `json:"total"`
		Paid          float64 `json:"paid"`
		PaymentStatus string  `json:"payment_status"`
	} `json:"fees"`
}

type activityBody struct {
	ID       string `json:"id"`
	Capacity struct {
		Max      int `json:"max"`
		Current  int `json:"current"`
		Waitlist int `json:"waitlist"`
	} `json:"capacity"`
	Participants []struct {
		UserID string `json:"user_id"`
		Status string `json:"status"`
	} `json:"participants"`
}

func submitPayload(petID string) map[string]any {
	return map[string]any{
		"pet_id": petID,
		"personal_info": map[string]any{
			"full_name": "Ana Pérez",
			"email":     "ana@example.com",
		},
		"housing_info": map[string]any{
			"type":     "house",
			"has_yard": true,
		},
	}
}

func decodeApplication(t *testing.T, body []byte) applicationBody {
	t.Helper()
	var app applicationBody
	if err := json.Unmarshal(body, &app); err != nil {
		t.Fatalf("decode application: %v body=%s", err, string(body))
	}
	return app
}

func petStatus(t *testing.T, baseURL, petID string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "GET", "/pets/"+petID, actor{}, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get pet, got %d body=%s", st, string(body))
	}
	var p struct {
		AdoptionStatus string `json:"adoption_status"`
	}
	_ = json.Unmarshal(body, &p)
	return p.AdoptionStatus
}

func createResource(t *testing.T, baseURL, path string, a actor, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, a, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path string, a actor, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.id != "" {
		req.Header.Set("X-Debug-User-ID", a.id)
		req.Header.Set("X-Debug-Role", a.role)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
