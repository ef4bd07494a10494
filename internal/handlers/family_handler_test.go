package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "funfinance/internal/errors"
	"funfinance/internal/models"
	"funfinance/internal/pagination"
	"funfinance/internal/services"
)

// --- mock family service ---

type mockFamilyService struct {
	listFamiliesFn            func(page pagination.PageRequest) (*pagination.PageResponse[models.Family], error)
	getFamilyByIDFn           func(id uint) (*models.Family, error)
	getFamilyWithMembersFn    func(id uint) (*models.Family, error)
	createFamilyFn            func(name string, creatorUserID uint) (*models.Family, error)
	updateFamilyFn            func(id uint, name string) (*models.Family, error)
	deleteFamilyFn            func(id uint) error
	createInvitationFn        func(familyID uint, email string) (string, error)
	acceptInvitationFn        func(token string, userID uint) error
	listInvitationsByFamilyFn func(familyID uint) ([]models.FamilyInvitation, error)
	listInvitationsByEmailFn  func(email string) ([]models.FamilyInvitation, error)
}

func (m *mockFamilyService) ListFamilies(page pagination.PageRequest) (*pagination.PageResponse[models.Family], error) {
	if m.listFamiliesFn != nil {
		return m.listFamiliesFn(page)
	}
	resp := pagination.NewPageResponse([]models.Family{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockFamilyService) GetFamilyByID(id uint) (*models.Family, error) {
	if m.getFamilyByIDFn != nil {
		return m.getFamilyByIDFn(id)
	}
	return &models.Family{}, nil
}

func (m *mockFamilyService) GetFamilyWithMembers(id uint) (*models.Family, error) {
	if m.getFamilyWithMembersFn != nil {
		return m.getFamilyWithMembersFn(id)
	}
	return &models.Family{}, nil
}

func (m *mockFamilyService) CreateFamily(name string, creatorUserID uint) (*models.Family, error) {
	if m.createFamilyFn != nil {
		return m.createFamilyFn(name, creatorUserID)
	}
	return &models.Family{}, nil
}

func (m *mockFamilyService) UpdateFamily(id uint, name string) (*models.Family, error) {
	if m.updateFamilyFn != nil {
		return m.updateFamilyFn(id, name)
	}
	return &models.Family{}, nil
}

func (m *mockFamilyService) DeleteFamily(id uint) error {
	if m.deleteFamilyFn != nil {
		return m.deleteFamilyFn(id)
	}
	return nil
}

func (m *mockFamilyService) CreateInvitation(familyID uint, email string) (string, error) {
	if m.createInvitationFn != nil {
		return m.createInvitationFn(familyID, email)
	}
	return "", nil
}

func (m *mockFamilyService) AcceptInvitation(token string, userID uint) error {
	if m.acceptInvitationFn != nil {
		return m.acceptInvitationFn(token, userID)
	}
	return nil
}

func (m *mockFamilyService) ListInvitationsByFamily(familyID uint) ([]models.FamilyInvitation, error) {
	if m.listInvitationsByFamilyFn != nil {
		return m.listInvitationsByFamilyFn(familyID)
	}
	return []models.FamilyInvitation{}, nil
}

func (m *mockFamilyService) ListInvitationsByEmail(email string) ([]models.FamilyInvitation, error) {
	if m.listInvitationsByEmailFn != nil {
		return m.listInvitationsByEmailFn(email)
	}
	return []models.FamilyInvitation{}, nil
}

var _ services.FamilyServicer = (*mockFamilyService)(nil)

func setupFamilyRouter(handler *FamilyHandler) *gin.Engine {
	r := gin.New()
	r.GET("/families", handler.GetFamilies)
	r.POST("/families", handler.CreateFamily)
	r.GET("/families/invitations", handler.GetInvitationsByEmail)
	r.POST("/families/accept-invitation", handler.AcceptInvitation)
	r.GET("/families/:id", handler.GetFamily)
	r.PUT("/families/:id", handler.UpdateFamily)
	r.DELETE("/families/:id", handler.DeleteFamily)
	r.GET("/families/:id/members", handler.GetFamilyMembers)
	r.GET("/families/:id/invitations", handler.GetFamilyInvitations)
	r.POST("/families/:id/invitations", handler.CreateInvitation)
	return r
}

func TestFamilyHandler_CreateFamily(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockFamilyService{
			createFamilyFn: func(name string, _ uint) (*models.Family, error) {
				return &models.Family{Base: models.Base{ID: 1}, Name: name}, nil
			},
		}
		handler := NewFamilyHandler(svc, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "POST", "/families", `{"name":"Smiths","creator_user_id":1}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		family := parseJSON(t, rec)["family"].(map[string]interface{})
		if family["name"] != "Smiths" {
			t.Errorf("expected Smiths, got %v", family["name"])
		}
	})

	t.Run("returns 400 on missing creator", func(t *testing.T) {
		handler := NewFamilyHandler(&mockFamilyService{}, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "POST", "/families", `{"name":"Smiths"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unknown creator", func(t *testing.T) {
		svc := &mockFamilyService{
			createFamilyFn: func(_ string, _ uint) (*models.Family, error) {
				return nil, apperrors.WithStatus(apperrors.ErrUserNotFound, http.StatusBadRequest)
			},
		}
		handler := NewFamilyHandler(svc, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "POST", "/families", `{"name":"Smiths","creator_user_id":99}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})
}

func TestFamilyHandler_DeleteFamily(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		handler := NewFamilyHandler(&mockFamilyService{}, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "DELETE", "/families/1", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when expenses exist", func(t *testing.T) {
		svc := &mockFamilyService{
			deleteFamilyFn: func(_ uint) error { return apperrors.ErrFamilyInUse },
		}
		handler := NewFamilyHandler(svc, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "DELETE", "/families/1", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FAMILY_IN_USE")
	})
}

func TestFamilyHandler_CreateInvitation(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		svc := &mockFamilyService{
			createInvitationFn: func(_ uint, _ string) (string, error) {
				return "9f2c8a44-3c1e-4f6a-9d0b-64de31f7a001", nil
			},
		}
		handler := NewFamilyHandler(svc, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "POST", "/families/1/invitations", `{"email":"new@example.com"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["token"] != "9f2c8a44-3c1e-4f6a-9d0b-64de31f7a001" {
			t.Errorf("unexpected token in response: %s", rec.Body.String())
		}
	})

	t.Run("returns 400 on invalid email", func(t *testing.T) {
		handler := NewFamilyHandler(&mockFamilyService{}, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "POST", "/families/1/invitations", `{"email":"not-an-email"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestFamilyHandler_AcceptInvitation(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		var gotToken string
		var gotUser uint
		svc := &mockFamilyService{
			acceptInvitationFn: func(token string, userID uint) error {
				gotToken, gotUser = token, userID
				return nil
			},
		}
		handler := NewFamilyHandler(svc, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "POST", "/families/accept-invitation",
			`{"token":"some-token","user_id":4}`)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotToken != "some-token" || gotUser != 4 {
			t.Errorf("expected token some-token and user 4, got %q and %d", gotToken, gotUser)
		}
	})

	t.Run("returns 400 on expired invitation", func(t *testing.T) {
		svc := &mockFamilyService{
			acceptInvitationFn: func(_ string, _ uint) error {
				return apperrors.ErrInvitationInvalid
			},
		}
		handler := NewFamilyHandler(svc, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "POST", "/families/accept-invitation",
			`{"token":"stale-token","user_id":4}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVITATION_INVALID")
	})

	t.Run("returns 404 on unknown token", func(t *testing.T) {
		svc := &mockFamilyService{
			acceptInvitationFn: func(_ string, _ uint) error {
				return apperrors.ErrInvitationNotFound
			},
		}
		handler := NewFamilyHandler(svc, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "POST", "/families/accept-invitation",
			`{"token":"nope","user_id":4}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestFamilyHandler_GetInvitationsByEmail(t *testing.T) {
	t.Run("requires email", func(t *testing.T) {
		handler := NewFamilyHandler(&mockFamilyService{}, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "GET", "/families/invitations", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns invitations", func(t *testing.T) {
		svc := &mockFamilyService{
			listInvitationsByEmailFn: func(email string) ([]models.FamilyInvitation, error) {
				return []models.FamilyInvitation{{Base: models.Base{ID: 1}, Email: email}}, nil
			},
		}
		handler := NewFamilyHandler(svc, &mockAuditService{})
		r := setupFamilyRouter(handler)

		rec := doRequest(r, "GET", "/families/invitations?email=a@example.com", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		invitations := parseJSON(t, rec)["invitations"].([]interface{})
		if len(invitations) != 1 {
			t.Errorf("expected 1 invitation, got %d", len(invitations))
		}
	})
}
