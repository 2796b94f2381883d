package auth

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopledesk/leave-management/internal"
)

type stubAuthService struct {
	claims       *Claims
	claimsErr    error
	principal    *Principal
	principalErr error
}

func (s *stubAuthService) Authenticate(dto LoginDTO) (AuthTokens, error) {
	return AuthTokens{}, nil
}

func (s *stubAuthService) RefreshTokens(refreshToken string) (AuthTokens, error) {
	return AuthTokens{}, nil
}

func (s *stubAuthService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if s.claimsErr != nil {
		return nil, s.claimsErr
	}
	return s.claims, nil
}

func (s *stubAuthService) GetPrincipal(employeeID int64) (*Principal, error) {
	if s.principalErr != nil {
		return nil, s.principalErr
	}
	return s.principal, nil
}

var _ = Describe("AuthMiddleware", func() {
	var (
		stub    *stubAuthService
		handler *Handler

		seenPrincipal  *Principal
		seenEmployee   string
		innerWasCalled bool
	)

	BeforeEach(func() {
		stub = &stubAuthService{
			claims:    &Claims{EmployeeID: "42"},
			principal: &Principal{ID: 42, Email: "sinta@mail.com", Name: "Sinta", Role: RoleEmployee},
		}
		handler = NewHandler(stub)

		seenPrincipal = nil
		seenEmployee = ""
		innerWasCalled = false
	})

	serve := func(authorization string) *httptest.ResponseRecorder {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			innerWasCalled = true
			seenPrincipal, _ = PrincipalFromContext(r.Context())
			seenEmployee = internal.EmployeeIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/leaves", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		handler.AuthMiddleware(inner).ServeHTTP(w, req)
		return w
	}

	It("resolves the principal and stamps the employee ID into context", func() {
		w := serve("Bearer sometoken")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(innerWasCalled).To(BeTrue())
		Expect(seenPrincipal).NotTo(BeNil())
		Expect(seenPrincipal.ID).To(Equal(int64(42)))
		Expect(seenPrincipal.Role).To(Equal(RoleEmployee))
		Expect(seenEmployee).To(Equal("42"))
	})

	It("rejects a request without a bearer token", func() {
		w := serve("")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(innerWasCalled).To(BeFalse())
	})

	It("rejects a request whose token fails validation", func() {
		stub.claimsErr = ErrInvalidToken

		w := serve("Bearer tampered")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(innerWasCalled).To(BeFalse())
	})

	It("rejects a token whose subject no longer exists", func() {
		stub.principalErr = internal.ErrEmployeeNotFound

		w := serve("Bearer sometoken")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(innerWasCalled).To(BeFalse())
	})
})
