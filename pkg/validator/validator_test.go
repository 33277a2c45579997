package validator_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgvalidator "github.com/mindflow/backend/pkg/validator"
)

type sampleStruct struct {
	CategoryID string   `json:"category_id" validate:"omitempty,uuid"`
	Title      string   `json:"title"       validate:"required,min=1,max=10"`
	Column     string   `json:"board_column" validate:"omitempty,board_column"`
	Color      string   `json:"color"       validate:"omitempty,color6"`
	Priority   string   `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	Tags       []string `json:"tags"        validate:"max=3,dive,tag"`
	Position   *int     `json:"board_position" validate:"isdefault"`
}

func TestValidate_valid(t *testing.T) {
	s := sampleStruct{
		CategoryID: "550e8400-e29b-41d4-a716-446655440000",
		Title:      "hello",
		Column:     "in_progress",
		Color:      "#3B82F6",
		Priority:   "high",
		Tags:       []string{"home", "errands"},
	}
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
		{"required", sampleStruct{}, "title", "This field is required"},
		{"max length", sampleStruct{Title: "12345678901"}, "title", "Maximum length is 10"},
		{"uuid", sampleStruct{Title: "ok", CategoryID: "nope"}, "category_id", "Must be a valid UUID"},
		{"board column upper case", sampleStruct{Title: "ok", Column: "Done"}, "board_column", "Must be 1-50 lower-case letters, digits, '_' or '-'"},
		{"board column spaces", sampleStruct{Title: "ok", Column: "in progress"}, "board_column", "Must be 1-50 lower-case letters, digits, '_' or '-'"},
		{"short color", sampleStruct{Title: "ok", Color: "#FFF"}, "color", "Must be a #RRGGBB color"},
		{"oneof", sampleStruct{Title: "ok", Priority: "critical"}, "priority", "Must be one of: low medium high urgent"},
		{"tag with comma", sampleStruct{Title: "ok", Tags: []string{"a,b"}}, "tags[0]", "Tags must be non-empty and must not contain commas"},
		{"blank tag", sampleStruct{Title: "ok", Tags: []string{" "}}, "tags[0]", "Tags must be non-empty and must not contain commas"},
		{"placement not writable", sampleStruct{Title: "ok", Position: new(int)}, "board_position", "Must not be set on this endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgvalidator.Validate(&tt.in)
			if err == nil {
				t.Fatal("expected validation error")
			}
			m := pkgvalidator.FormatValidationErrors(err)
			if m[tt.field] != tt.want {
				t.Errorf("%s: got %q, want %q (all: %v)", tt.field, m[tt.field], tt.want, m)
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

type moveReq struct {
	Column   string `json:"board_column"   validate:"required,board_column"`
	Position *int   `json:"board_position" validate:"omitempty,gte=0"`
}

func TestValidateRequest_valid(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"board_column":"done","board_position":2}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	req, ok := pkgvalidator.ValidateRequest[moveReq](w, r)
	if !ok {
		t.Fatalf("expected ok=true, got false. Response: %s", w.Body.String())
	}
	if req.Column != "done" || req.Position == nil || *req.Position != 2 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestValidateRequest_errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		limit    int64
		wantCode int
		wantBody string
	}{
		{"malformed json", "{bad json", 0, http.StatusBadRequest, "Invalid JSON"},
		{"missing column", `{"board_position":1}`, 0, http.StatusUnprocessableEntity, "Validation failed"},
		{"negative position", `{"board_column":"todo","board_position":-1}`, 0, http.StatusUnprocessableEntity, "greater than or equal to 0"},
		{"body too large", `{"board_column":"` + strings.Repeat("a", 64) + `"}`, 16, http.StatusRequestEntityTooLarge, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			if tt.limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, tt.limit)
			}

			if _, ok := pkgvalidator.ValidateRequest[moveReq](w, r); ok {
				t.Fatal("expected ok=false")
			}
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("expected %q in body, got: %s", tt.wantBody, w.Body.String())
			}
		})
	}
}
