package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/blooddb/donation-api/internal/core/domain"
	"github.com/blooddb/donation-api/internal/core/ports"
)

type stubDonorService struct {
	createFn func(ctx context.Context, owner domain.Identity, in ports.DonorInput) (int64, error)
	getFn    func(ctx context.Context, owner domain.Identity, id int64) (*domain.Donor, error)
	searchFn func(ctx context.Context, f domain.DonorSearch) ([]*domain.Donor, error)
	deleteFn func(ctx context.Context, owner domain.Identity, id int64) error
}

func (s *stubDonorService) Create(ctx context.Context, owner domain.Identity, in ports.DonorInput) (int64, error) {
	return s.createFn(ctx, owner, in)
}

func (s *stubDonorService) Get(ctx context.Context, owner domain.Identity, id int64) (*domain.Donor, error) {
	return s.getFn(ctx, owner, id)
}

func (s *stubDonorService) ListMine(ctx context.Context, owner domain.Identity) ([]*domain.Donor, error) {
	return []*domain.Donor{}, nil
}

func (s *stubDonorService) Update(ctx context.Context, owner domain.Identity, id int64, in ports.DonorInput) error {
	return nil
}

func (s *stubDonorService) Delete(ctx context.Context, owner domain.Identity, id int64) error {
	return s.deleteFn(ctx, owner, id)
}

func (s *stubDonorService) Search(ctx context.Context, f domain.DonorSearch) ([]*domain.Donor, error) {
	return s.searchFn(ctx, f)
}

var alice = domain.Identity{UserID: 1, Username: "alice", Email: "a@x.com"}

// withIdentity mimics what the session middleware does for a resolved request.
func withIdentity(req *http.Request, id domain.Identity) *http.Request {
	return req.WithContext(ports.WithIdentity(req.Context(), id))
}

const validDonor = `{"name":"Ravi Kumar","age":30,"gender":"Male","blood_group":"O+","city":"Pune","phone":"9876543210"}`

func TestDonorHandler_Create_OwnerFromSession(t *testing.T) {
	e := newTestEcho()
	stub := &stubDonorService{
		createFn: func(ctx context.Context, owner domain.Identity, in ports.DonorInput) (int64, error) {
			if owner.UserID != alice.UserID {
				t.Fatalf("owner = %d, want %d", owner.UserID, alice.UserID)
			}
			if in.BloodGroup != "O+" || in.Age != 30 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return 11, nil
		},
	}
	handler := NewDonorHandler(stub)

	// A user_id in the body is ignored.
	body := `{"user_id":99,"name":"Ravi Kumar","age":30,"gender":"Male","blood_group":"O+","city":"Pune","phone":"9876543210"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(withIdentity(jsonRequest(http.MethodPost, "/api/donors", body), alice), rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp donorCreatedResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.DonorID != 11 {
		t.Fatalf("donor_id = %d", resp.DonorID)
	}
}

func TestDonorHandler_Create_RequiresIdentity(t *testing.T) {
	e := newTestEcho()
	handler := NewDonorHandler(&stubDonorService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/donors", validDonor), httptest.NewRecorder())

	if err := handler.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestDonorHandler_Create_Validation(t *testing.T) {
	e := newTestEcho()
	handler := NewDonorHandler(&stubDonorService{})

	tests := []struct {
		name string
		body string
	}{
		{"too young", `{"name":"Ravi Kumar","age":17,"gender":"Male","blood_group":"O+","city":"Pune","phone":"9876543210"}`},
		{"too old", `{"name":"Ravi Kumar","age":66,"gender":"Male","blood_group":"O+","city":"Pune","phone":"9876543210"}`},
		{"unknown group", `{"name":"Ravi Kumar","age":30,"gender":"Male","blood_group":"C+","city":"Pune","phone":"9876543210"}`},
		{"bad gender", `{"name":"Ravi Kumar","age":30,"gender":"M","blood_group":"O+","city":"Pune","phone":"9876543210"}`},
		{"digits in name", `{"name":"Ravi 2","age":30,"gender":"Male","blood_group":"O+","city":"Pune","phone":"9876543210"}`},
		{"short phone", `{"name":"Ravi Kumar","age":30,"gender":"Male","blood_group":"O+","city":"Pune","phone":"98765"}`},
		{"blank name", `{"name":"   ","age":30,"gender":"Male","blood_group":"O+","city":"Pune","phone":"9876543210"}`},
		{"blank city", `{"name":"Ravi Kumar","age":30,"gender":"Male","blood_group":"O+","city":"  ","phone":"9876543210"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(withIdentity(jsonRequest(http.MethodPost, "/api/donors", tt.body), alice), httptest.NewRecorder())
			if err := handler.Create(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDonorHandler_Get_BadIDIsNotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubDonorService{
		getFn: func(ctx context.Context, owner domain.Identity, id int64) (*domain.Donor, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewDonorHandler(stub)

	for _, raw := range []string{"abc", "0", "-3"} {
		c := e.NewContext(withIdentity(httptest.NewRequest(http.MethodGet, "/api/donors/"+raw, nil), alice), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		if err := handler.Get(c); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("id %q: expected not found, got %v", raw, err)
		}
	}
}

func TestDonorHandler_Delete_NotOwned(t *testing.T) {
	e := newTestEcho()
	stub := &stubDonorService{
		deleteFn: func(ctx context.Context, owner domain.Identity, id int64) error {
			if id != 7 {
				t.Fatalf("id = %d", id)
			}
			return domain.ErrNotFound
		},
	}
	handler := NewDonorHandler(stub)

	c := e.NewContext(withIdentity(httptest.NewRequest(http.MethodDelete, "/api/donors/7", nil), alice), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := handler.Delete(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDonorHandler_Search(t *testing.T) {
	e := newTestEcho()
	stub := &stubDonorService{
		searchFn: func(ctx context.Context, f domain.DonorSearch) ([]*domain.Donor, error) {
			if f.BloodGroup != "AB-" || f.City != "pune" {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return []*domain.Donor{{ID: 1, BloodGroup: "AB-", City: "Pune"}}, nil
		},
	}
	handler := NewDonorHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/search-donors?blood_group=AB-&city=pune", nil), rec)

	if err := handler.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp donorListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 1 || len(resp.Donors) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDonorHandler_Search_UnknownGroup(t *testing.T) {
	e := newTestEcho()
	handler := NewDonorHandler(&stubDonorService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/search-donors?blood_group=Z", nil), httptest.NewRecorder())

	if err := handler.Search(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBloodRequestHandler_StatusOptional(t *testing.T) {
	e := newTestEcho()
	var got ports.BloodRequestInput
	stub := &stubRequestService{
		createFn: func(ctx context.Context, owner domain.Identity, in ports.BloodRequestInput) (int64, error) {
			got = in
			return 3, nil
		},
	}
	handler := NewBloodRequestHandler(stub)

	body := `{"name":"Meera","blood_group":"B+","city":"Chennai","reason":"Surgery tomorrow","phone":"9123456780"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(withIdentity(jsonRequest(http.MethodPost, "/api/requests", body), alice), rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Status != "" {
		t.Fatalf("status = %q, want empty so the service applies the default", got.Status)
	}

	bad := `{"name":"Meera","blood_group":"B+","city":"Chennai","reason":"Surgery tomorrow","phone":"9123456780","status":"Done"}`
	c = e.NewContext(withIdentity(jsonRequest(http.MethodPost, "/api/requests", bad), alice), httptest.NewRecorder())
	if err := handler.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	short := `{"name":"Meera","blood_group":"B+","city":"Chennai","reason":"Hurt","phone":"9123456780"}`
	c = e.NewContext(withIdentity(jsonRequest(http.MethodPost, "/api/requests", short), alice), httptest.NewRecorder())
	if err := handler.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for short reason, got %v", err)
	}
}

type stubRequestService struct {
	createFn func(ctx context.Context, owner domain.Identity, in ports.BloodRequestInput) (int64, error)
}

func (s *stubRequestService) Create(ctx context.Context, owner domain.Identity, in ports.BloodRequestInput) (int64, error) {
	return s.createFn(ctx, owner, in)
}

func (s *stubRequestService) Get(ctx context.Context, owner domain.Identity, id int64) (*domain.BloodRequest, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRequestService) ListMine(ctx context.Context, owner domain.Identity) ([]*domain.BloodRequest, error) {
	return []*domain.BloodRequest{}, nil
}

func (s *stubRequestService) Update(ctx context.Context, owner domain.Identity, id int64, in ports.BloodRequestInput) error {
	return nil
}

func (s *stubRequestService) Delete(ctx context.Context, owner domain.Identity, id int64) error {
	return nil
}

func (s *stubRequestService) ListAll(ctx context.Context) ([]*domain.BloodRequest, error) {
	return []*domain.BloodRequest{}, nil
}

var _ echo.Validator = NewValidator()
