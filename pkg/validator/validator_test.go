package validator_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgvalidator "github.com/ghuser/shelfaware/pkg/validator"
)

type sampleStruct struct {
	UID   string `validate:"required,hexadecimal"`
	Name  string `validate:"required,min=1,max=10"`
	Event string `validate:"omitempty,oneof=in out moved"`
	Count int    `validate:"omitempty,gt=0"`
}

func TestValidate_valid(t *testing.T) {
	s := sampleStruct{UID: "04a1b2", Name: "hello", Event: "in"}
	if err := pkgvalidator.Validate(&s); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestFormatValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    sampleStruct
		field string
		want  string
	}{
		{"required uid", sampleStruct{}, "UID", "This field is required"},
		{"required name", sampleStruct{}, "Name", "This field is required"},
		{"hex", sampleStruct{UID: "zz", Name: "ok"}, "UID", "Must be hexadecimal"},
		{"oneof", sampleStruct{UID: "ab", Name: "ok", Event: "sideways"}, "Event", "Must be one of: in out moved"},
		{"max", sampleStruct{UID: "ab", Name: "12345678901"}, "Name", "Maximum length is 10"},
		{"gt", sampleStruct{UID: "ab", Name: "ok", Count: -1}, "Count", "Must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&tt.in))
			if m[tt.field] != tt.want {
				t.Errorf("%s: got %q, want %q", tt.field, m[tt.field], tt.want)
			}
		})
	}
}

func TestFormatValidationErrors_nonValidationError(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie)
	if len(m) != 0 {
		t.Errorf("expected empty map for non-validation error, got %v", m)
	}
}


// --- ValidateRequest ---

type eventReq struct {
	ItemID int64    `json:"item_id" validate:"required,gt=0"`
	Type   string   `json:"type"    validate:"required,oneof=in out moved"`
	Weight *float64 `json:"weight"`
	Plate  *int32   `json:"plate"   validate:"omitempty,gte=0"`
}

func TestValidateRequest_valid(t *testing.T) {
	body := `{"item_id":5,"type":"in","weight":120}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	req, ok := pkgvalidator.ValidateRequest[eventReq](w, r)
	if !ok {
		t.Fatalf("expected ok=true, got false. Response: %s", w.Body.String())
	}
	if req.ItemID != 5 || req.Weight == nil || *req.Weight != 120 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestValidateRequest_invalidJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad json"))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[eventReq](w, r)
	if ok {
		t.Fatal("expected ok=false for malformed JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid JSON") {
		t.Errorf("expected 'Invalid JSON' in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_missingField(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"in"}`))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[eventReq](w, r)
	if ok {
		t.Fatal("expected ok=false for missing item_id")
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "item_id") {
		t.Errorf("expected item_id in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_form(t *testing.T) {
	body := "item_id=5&type=out&weight=&plate=2"
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	req, ok := pkgvalidator.ValidateRequest[eventReq](w, r)
	if !ok {
		t.Fatalf("expected ok=true, got false. Response: %s", w.Body.String())
	}
	if req.ItemID != 5 || req.Type != "out" {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.Weight != nil {
		t.Error("empty weight must coerce to null")
	}
	if req.Plate == nil || *req.Plate != 2 {
		t.Error("plate must coerce to an integer")
	}
}

func TestValidateRequest_formBadNumber(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("item_id=five&type=in"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[eventReq](w, r)
	if ok {
		t.Fatal("expected ok=false for non-numeric item_id")
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Must be an integer") {
		t.Errorf("expected integer message, got: %s", w.Body.String())
	}
}

func TestCoerceForm(t *testing.T) {
	m, errs := pkgvalidator.CoerceForm(map[string][]string{
		"name":         {" Milk "},
		"weight":       {"1.5"},
		"clear_expiry": {"true"},
		"row":          {"x"},
	})
	if m["name"] != " Milk " {
		t.Errorf("string fields must pass through untouched, got %q", m["name"])
	}
	if m["weight"] != 1.5 {
		t.Errorf("unexpected weight: %v", m["weight"])
	}
	if m["clear_expiry"] != true {
		t.Errorf("unexpected clear_expiry: %v", m["clear_expiry"])
	}
	if errs["row"] == "" {
		t.Error("expected row coercion error")
	}
}

func TestValidateRequest_emptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	w := httptest.NewRecorder()

	if _, ok := pkgvalidator.ValidateRequest[eventReq](w, r); ok {
		t.Fatal("expected ok=false for empty body")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Request body is required") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestValidateRequest_tooLarge(t *testing.T) {
	body := `{"item_id":5,"type":"in","weight":` + strings.Repeat("1", 64) + `}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.Body = http.MaxBytesReader(w, r.Body, 16)

	if _, ok := pkgvalidator.ValidateRequest[eventReq](w, r); ok {
		t.Fatal("expected ok=false for oversized body")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}
