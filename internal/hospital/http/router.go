package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/pkg/httpx"
	"github.com/jotonhealth/joton/pkg/jwtx"
	"github.com/jotonhealth/joton/pkg/slogx"

	_ "github.com/jotonhealth/joton/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	accessCodec   *jwtx.AccessCodec
	secureCookies bool
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger

	store             store.Store
	SessionService    *service.SessionService
	AccountService    *service.AccountService
	PatientService    *service.PatientService
	StaffService      *service.StaffService
	InvoiceService    *service.InvoiceService
	DepartmentService *service.DepartmentService
	SystemService     *service.SystemService
}

func NewRouter(
	accessCodec *jwtx.AccessCodec,
	secureCookies bool,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		accessCodec:   accessCodec,
		secureCookies: secureCookies,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPatients()
	r.registerStaff()
	r.registerInvoices()
	r.registerDepartments()
	r.registerAccounts()
	r.registerSystem()
	r.registerHealth()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Joton Hospital Management API
//	@version		0.1.0
//	@description	Backend for the Joton hospital records system: cookie-based
//	@description	session authentication with rotating refresh tokens, plus
//	@description	patient, staff, invoice and department management.
//
//	@contact.name	Joton Health
//
//	@BasePath		/api
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn returns the per-route chain for protected endpoints: a valid access
// cookie first, then membership in any of the given roles. No store I/O
// happens on this path.
func (r *Router) authn(h http.Handler, roles ...domain.Role) http.Handler {
	mws := []httpx.Middleware{httpx.AuthnMiddleware(r.accessCodec)}
	if len(roles) > 0 {
		names := make([]string, 0, len(roles))
		for _, role := range roles {
			names = append(names, role.String())
		}
		mws = append(mws, httpx.RequireAnyRole(names...))
	}
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Sessions:      r.SessionService,
		Accounts:      r.AccountService,
		System:        r.SystemService,
		SecureCookies: r.secureCookies,
	}

	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("GET /api/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	r.Mux.Handle("GET /api/auth/profile",
		r.authn(http.HandlerFunc(h.HandleProfile)))

	r.Mux.Handle("POST /api/auth/register-admin",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterAdmin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
}

func (r *Router) registerPatients() {
	h := &PatientsHandler{Patients: r.PatientService}

	r.Mux.Handle("POST /api/patients/register",
		r.authn(http.HandlerFunc(h.HandleRegister),
			domain.RoleReceptionist, domain.RoleAdmin))

	r.Mux.Handle("GET /api/patients",
		r.authn(http.HandlerFunc(h.HandleList),
			domain.RoleAdmin, domain.RoleOwner, domain.RoleManager,
			domain.RoleReceptionist, domain.RoleDoctor, domain.RoleNurse))

	r.Mux.Handle("GET /api/patients/{id}",
		r.authn(http.HandlerFunc(h.HandleGet),
			domain.RoleAdmin, domain.RoleOwner, domain.RoleManager,
			domain.RoleReceptionist, domain.RoleDoctor, domain.RoleNurse,
			domain.RolePatient))

	r.Mux.Handle("PATCH /api/patients/{id}",
		r.authn(http.HandlerFunc(h.HandleUpdate),
			domain.RoleReceptionist, domain.RoleAdmin, domain.RolePatient))

	r.Mux.Handle("DELETE /api/patients/{id}",
		r.authn(http.HandlerFunc(h.HandleDelete),
			domain.RoleAdmin, domain.RoleOwner))
}

func (r *Router) registerStaff() {
	h := &StaffHandler{Staff: r.StaffService}

	r.Mux.Handle("POST /api/staff",
		r.authn(http.HandlerFunc(h.HandleCreate),
			domain.RoleAdmin, domain.RoleOwner, domain.RoleManager))

	r.Mux.Handle("GET /api/staff",
		r.authn(http.HandlerFunc(h.HandleList),
			domain.RoleAdmin, domain.RoleOwner, domain.RoleManager,
			domain.RoleReceptionist))

	r.Mux.Handle("GET /api/staff/{id}",
		r.authn(http.HandlerFunc(h.HandleGet),
			domain.RoleAdmin, domain.RoleOwner, domain.RoleManager,
			domain.RoleReceptionist))

	r.Mux.Handle("GET /api/staff/by-code/{code}",
		r.authn(http.HandlerFunc(h.HandleGetByCode),
			domain.RoleAdmin, domain.RoleOwner))

	r.Mux.Handle("PATCH /api/staff/{id}",
		r.authn(http.HandlerFunc(h.HandleUpdate),
			domain.RoleAdmin, domain.RoleOwner, domain.RoleManager))

	r.Mux.Handle("DELETE /api/staff/{id}",
		r.authn(http.HandlerFunc(h.HandleDelete),
			domain.RoleAdmin, domain.RoleOwner))

	// public headcount for the landing page
	r.Mux.Handle("GET /api/staff/count",
		httpx.Chain(http.HandlerFunc(h.HandleCount),
			httpx.RateLimitByIP(httpx.LenientLimit),
		))
}

func (r *Router) registerInvoices() {
	h := &InvoicesHandler{Invoices: r.InvoiceService}

	r.Mux.Handle("POST /api/invoices",
		r.authn(http.HandlerFunc(h.HandleCreate),
			domain.RoleReceptionist, domain.RoleAdmin))

	r.Mux.Handle("GET /api/invoices",
		r.authn(http.HandlerFunc(h.HandleList),
			domain.RoleReceptionist, domain.RoleAdmin))

	r.Mux.Handle("GET /api/invoices/my-invoices",
		r.authn(http.HandlerFunc(h.HandleListMine),
			domain.RolePatient))

	r.Mux.Handle("GET /api/invoices/{id}",
		r.authn(http.HandlerFunc(h.HandleGet),
			domain.RoleReceptionist, domain.RoleAdmin, domain.RolePatient))

	r.Mux.Handle("PATCH /api/invoices/{id}",
		r.authn(http.HandlerFunc(h.HandleUpdate),
			domain.RoleReceptionist, domain.RoleAdmin))

	r.Mux.Handle("DELETE /api/invoices/{id}",
		r.authn(http.HandlerFunc(h.HandleDelete),
			domain.RoleAdmin))
}

func (r *Router) registerDepartments() {
	h := &DepartmentsHandler{Departments: r.DepartmentService}

	// reads are public
	r.Mux.Handle("GET /api/departments",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		))
	r.Mux.Handle("GET /api/departments/{idOrSlug}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		))

	r.Mux.Handle("POST /api/departments",
		r.authn(http.HandlerFunc(h.HandleCreate), domain.RoleAdmin))
	r.Mux.Handle("PATCH /api/departments/{id}",
		r.authn(http.HandlerFunc(h.HandleUpdate), domain.RoleAdmin))
	r.Mux.Handle("PUT /api/departments/{id}/slides",
		r.authn(http.HandlerFunc(h.HandleSetSlides), domain.RoleAdmin))
	r.Mux.Handle("PUT /api/departments/{id}/staff",
		r.authn(http.HandlerFunc(h.HandleAssignStaff), domain.RoleAdmin))
	r.Mux.Handle("DELETE /api/departments/{id}",
		r.authn(http.HandlerFunc(h.HandleDelete), domain.RoleAdmin))
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{Accounts: r.AccountService}

	r.Mux.Handle("GET /api/users",
		r.authn(http.HandlerFunc(h.HandleList),
			domain.RoleAdmin, domain.RoleOwner))

	r.Mux.Handle("DELETE /api/users/{id}",
		r.authn(http.HandlerFunc(h.HandleDelete),
			domain.RoleAdmin, domain.RoleOwner))
}

func (r *Router) registerSystem() {
	h := &SystemHandler{System: r.SystemService, BuildVersion: r.buildVersion}

	r.Mux.Handle("GET /api/system/status",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			httpx.RateLimitByIP(httpx.LenientLimit),
		))

	r.Mux.Handle("GET /api/system/setup-token",
		httpx.Chain(http.HandlerFunc(h.HandleSetupToken),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
}

func (r *Router) registerHealth() {
	r.Mux.Handle("GET /livez", LivezHandler(r.buildVersion, r.startTime))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
}
