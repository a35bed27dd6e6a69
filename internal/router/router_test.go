package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"peds-medsafety/internal/router"
)

func TestHTTP_EndToEnd_PrescriptionWorkflow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	doctorID := "doc-1"
	pharmacistID := "pharm-1"
	nurseID := "nurse-1"

	// 1) Pharmacist da de alta el fármaco
	drugID := createDrug(t, ts.URL, pharmacistID, map[string]any{
		"name":             "Amoxicillin 250mg susp",
		"category":         "antibiotics",
		"weight_based":     "10-15",
		"max_daily_per_kg": "75",
		"routes":           []string{"oral"},
		"frequency":        "cada 8h",
	})

	// 2) Doctor registra al paciente
	patientID := createPatient(t, ts.URL, doctorID, map[string]any{
		"name":      "Lucía",
		"age_years": 7,
		"weight_kg": 25.5,
		"height_cm": 125,
	})

	// 3) Doctor calcula dosis => safe, canal pasivo
	{
		st, body := doReq(t, ts.URL, "POST", "/dosage/calculate", doctorID, "doctor", map[string]any{
			"patient_id": patientID,
			"drug_id":    drugID,
			"route":      "oral",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 calculate, got %d body=%s", st, string(body))
		}

		var resp struct {
			RecommendedDose float64 `json:"recommended_dose"`
			MaxDailyDose    float64 `json:"max_daily_dose"`
			Level           string  `json:"level"`
			Channel         string  `json:"channel"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.RecommendedDose != 318.8 {
			t.Fatalf("expected recommended 318.8, got %v", resp.RecommendedDose)
		}
		if resp.MaxDailyDose != 1912.5 {
			t.Fatalf("expected max daily 1912.5, got %v", resp.MaxDailyDose)
		}
		if resp.Level != "safe" || resp.Channel != "passive" {
			t.Fatalf("expected safe/passive, got %s/%s", resp.Level, resp.Channel)
		}
	}

	// 4) Doctor emite la receta
	rxID := ""
	{
		st, body := doReq(t, ts.URL, "POST", "/prescriptions", doctorID, "doctor", map[string]any{
			"patient_id": patientID,
			"drug_id":    drugID,
			"route":      "oral",
			"quantity":   21,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create prescription, got %d body=%s", st, string(body))
		}

		var resp struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Dosage string `json:"dosage"`
			Safety *struct {
				Level string `json:"level"`
			} `json:"safety"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ID == "" || resp.Status != "pending" {
			t.Fatalf("expected pending prescription with id, body=%s", string(body))
		}
		if resp.Dosage != "318.8 mg" {
			t.Fatalf("expected auto dosage 318.8 mg, got %q", resp.Dosage)
		}
		if resp.Safety == nil || resp.Safety.Level != "safe" {
			t.Fatalf("expected embedded safe verdict, body=%s", string(body))
		}
		rxID = resp.ID
	}

	// 5) Nurse no puede enviar (acción de doctor)
	{
		st, _ := doReq(t, ts.URL, "POST", "/prescriptions/"+rxID+"/send", nurseID, "nurse", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 send as nurse, got %d", st)
		}
	}

	// 6) Workflow completo
	transit(t, ts.URL, rxID, "send", doctorID, "doctor", nil, "sent")
	transit(t, ts.URL, rxID, "verify", pharmacistID, "pharmacist", nil, "verified")

	// verify repetido => 409, nunca se acepta en silencio
	{
		st, _ := doReq(t, ts.URL, "POST", "/prescriptions/"+rxID+"/verify", pharmacistID, "pharmacist", nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on repeated verify, got %d", st)
		}
	}

	transit(t, ts.URL, rxID, "dispense", pharmacistID, "pharmacist", nil, "dispensed")

	// administer sin notas => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/prescriptions/"+rxID+"/administer", nurseID, "nurse", map[string]any{})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 administer without notes, got %d", st)
		}
	}

	transit(t, ts.URL, rxID, "administer", nurseID, "nurse", map[string]any{
		"notes": "dosis completa, sin reacción",
	}, "administered")

	// 7) Timeline completo: created + 4 transiciones
	{
		st, body := doReq(t, ts.URL, "GET", "/prescriptions/"+rxID, doctorID, "doctor", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get prescription, got %d", st)
		}

		var resp struct {
			Status   string `json:"status"`
			Timeline []struct {
				Event string `json:"event"`
			} `json:"timeline"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "administered" {
			t.Fatalf("expected administered, got %s", resp.Status)
		}
		if len(resp.Timeline) != 5 {
			t.Fatalf("expected 5 timeline entries, got %d body=%s", len(resp.Timeline), string(body))
		}
		if resp.Timeline[0].Event != "created" || resp.Timeline[4].Event != "administered" {
			t.Fatalf("unexpected timeline order: %s", string(body))
		}
	}

	// 8) Listado por paciente
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/prescriptions", doctorID, "doctor", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list by patient, got %d", st)
		}
		var items []json.RawMessage
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 prescription for patient, got %d", len(items))
		}
	}

	// 9) Los eventos de workflow quedaron en el feed de alertas
	{
		st, body := doReq(t, ts.URL, "GET", "/alerts", doctorID, "doctor", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list alerts, got %d", st)
		}
		var items []json.RawMessage
		_ = json.Unmarshal(body, &items)
		if len(items) == 0 {
			t.Fatalf("expected workflow alerts in feed, body=%s", string(body))
		}
	}
}

func TestHTTP_AllergyVerdict_InterruptsAndAlerts(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	drugID := createDrug(t, ts.URL, "pharm-1", map[string]any{
		"name":             "Amoxicillin 250mg susp",
		"category":         "antibiotics",
		"weight_based":     "10-15",
		"max_daily_per_kg": "75",
		"routes":           []string{"oral"},
	})

	patientID := createPatient(t, ts.URL, "doc-1", map[string]any{
		"name":      "Mateo",
		"age_years": 5,
		"weight_kg": 18.0,
		"allergies": []string{"Penicillin"},
	})

	st, body := doReq(t, ts.URL, "POST", "/dosage/calculate", "doc-1", "doctor", map[string]any{
		"patient_id": patientID,
		"drug_id":    drugID,
		"route":      "oral",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 calculate, got %d body=%s", st, string(body))
	}

	var resp struct {
		Level    string   `json:"level"`
		Channel  string   `json:"channel"`
		Warnings []string `json:"warnings"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Level != "danger" {
		t.Fatalf("expected danger for penicillin allergy, got %s", resp.Level)
	}
	if resp.Channel != "interrupting" {
		t.Fatalf("expected interrupting channel, got %s", resp.Channel)
	}
	if len(resp.Warnings) == 0 {
		t.Fatalf("expected allergy warning")
	}

	// El veredicto quedó registrado en el feed
	st, body = doReq(t, ts.URL, "GET", "/alerts?limit=10", "doc-1", "doctor", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 alerts, got %d", st)
	}
	var alerts []struct {
		Severity string `json:"severity"`
		Channel  string `json:"channel"`
	}
	_ = json.Unmarshal(body, &alerts)
	if len(alerts) == 0 {
		t.Fatalf("expected at least one alert, body=%s", string(body))
	}
	if alerts[0].Severity != "danger" || alerts[0].Channel != "interrupting" {
		t.Fatalf("expected danger/interrupting alert first, got %+v", alerts[0])
	}
}

func TestHTTP_StatPriority_InterruptsWorkflowEvents(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	drugID := createDrug(t, ts.URL, "pharm-1", map[string]any{
		"name":             "Ceftriaxone",
		"category":         "antibiotics",
		"weight_based":     "50",
		"max_daily_per_kg": "100",
		"routes":           []string{"intravenous"},
	})
	patientID := createPatient(t, ts.URL, "doc-1", map[string]any{
		"name":      "Emma",
		"age_years": 3,
		"weight_kg": 14.0,
	})

	st, body := doReq(t, ts.URL, "POST", "/prescriptions", "doc-1", "doctor", map[string]any{
		"patient_id": patientID,
		"drug_id":    drugID,
		"route":      "intravenous",
		"quantity":   1,
		"priority":   "stat",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}

	var resp struct {
		Priority string `json:"priority"`
		Safety   *struct {
			Channel string `json:"channel"`
		} `json:"safety"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Priority != "stat" {
		t.Fatalf("expected stat priority, got %s", resp.Priority)
	}
	// Prioridad high => interrumpe aunque el veredicto no sea danger.
	if resp.Safety == nil || resp.Safety.Channel != "interrupting" {
		t.Fatalf("expected interrupting channel for stat, body=%s", string(body))
	}
}

func TestHTTP_RoleEnforcement_OnCatalogEndpoints(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// Sin identidad => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/patients", "", "", map[string]any{"name": "x"})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", st)
		}
	}

	// Nurse no registra pacientes
	{
		st, _ := doReq(t, ts.URL, "POST", "/patients", "nurse-1", "nurse", map[string]any{
			"name":      "x",
			"age_years": 4,
			"weight_kg": 16.0,
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 create patient as nurse, got %d", st)
		}
	}

	// Doctor no da de alta fármacos
	{
		st, _ := doReq(t, ts.URL, "POST", "/drugs", "doc-1", "doctor", map[string]any{
			"name":     "x",
			"category": "other",
			"routes":   []string{"oral"},
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 create drug as doctor, got %d", st)
		}
	}
}

func transit(t *testing.T, baseURL, rxID, action, userID, role string, payload map[string]any, wantStatus string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/prescriptions/"+rxID+"/"+action, userID, role, payload)
	if st != http.StatusOK {
		t.Fatalf("expected 200 %s, got %d body=%s", action, st, string(body))
	}

	var resp struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Status != wantStatus {
		t.Fatalf("%s: expected status %s, got %s", action, wantStatus, resp.Status)
	}
}

func createDrug(t *testing.T, baseURL, pharmacistID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/drugs", pharmacistID, "pharmacist", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create drug, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create drug: missing id body=%s", string(body))
	}
	return resp.ID
}

func createPatient(t *testing.T, baseURL, doctorID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/patients", doctorID, "doctor", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create patient, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create patient: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, debugRole string, body any) (int, []byte) {
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
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
		req.Header.Set("X-Debug-Role", debugRole)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
