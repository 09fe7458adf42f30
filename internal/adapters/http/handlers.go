package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/crypto/bcrypt"

	"dangol/internal/adapters/http/middleware"
	"dangol/internal/application/orchestrators"
	"dangol/internal/application/projections"
	"dangol/internal/domain/clock"
	"dangol/internal/domain/order"
)

// timeNow is a variable for testability.
var timeNow = clock.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// submissionLogLimit caps the recent-submission list on the admin page.
const submissionLogLimit = 50

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// templatesDir is relative to the process working directory; package
// tests point it at the local templates directory instead.
var templatesDir = "internal/adapters/http/templates"

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	funcMap := template.FuncMap{
		"csrfToken": func() string { return csrf.Token(r) },
		"isAdmin":   func() bool { return middleware.IsAdmin(r.Context()) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"weekRange": func() []int { return []int{1, 2, 3, 4} },
		"add":       func(a, b int) int { return a + b },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// parseQuantity reads a form quantity. Blank means zero; anything that is
// not a whole number comes back as -1 so domain validation rejects it.
func parseQuantity(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

// parseOrderForm builds the orchestrator input from the posted form.
// Week fields are named w<n>_unsweetened etc., n in 1..4.
func parseOrderForm(r *http.Request) orchestrators.SubmitOrderInput {
	input := orchestrators.SubmitOrderInput{
		Region:    r.FormValue("region"),
		Name:      r.FormValue("name"),
		Phone:     r.FormValue("phone"),
		Address:   r.FormValue("address"),
		CopyWeek1: r.FormValue("copy_week1") == "on" || r.FormValue("copy_week1") == "true",
	}
	if t, err := time.ParseInLocation(clock.DateLayout, r.FormValue("start_date"), clock.KST); err == nil {
		input.StartDate = t
	}
	for i := 0; i < order.ScheduleWeeks; i++ {
		prefix := "w" + strconv.Itoa(i+1) + "_"
		input.Weeks[i] = order.Quantities{
			Unsweetened: parseQuantity(r.FormValue(prefix + "unsweetened")),
			Sweetened:   parseQuantity(r.FormValue(prefix + "sweetened")),
			Berry:       parseQuantity(r.FormValue(prefix + "berry")),
			Greek:       parseQuantity(r.FormValue(prefix + "greek")),
		}
	}
	return input
}

// orderFormData builds the render context for the order form page.
func orderFormData(r *http.Request, input orchestrators.SubmitOrderInput, fieldErrors map[string]string) map[string]any {
	startDate := clock.Today()
	if !input.StartDate.IsZero() {
		startDate = input.StartDate.Format(clock.DateLayout)
	}
	return map[string]any{
		"CSRFToken":   csrf.Token(r),
		"Notice":      os.Getenv("DANGOL_NOTICE"),
		"Input":       input,
		"StartDate":   startDate,
		"FieldErrors": fieldErrors,
	}
}

// handleOrder handles GET (form) and POST (submit) for /order
func handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "order.html", orderFormData(r, orchestrators.SubmitOrderInput{}, nil))
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := parseOrderForm(r)

		if problems := input.Validate(); len(problems) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			renderTemplate(w, r, "order.html", orderFormData(r, input, problems))
			return
		}

		deps := orchestrators.SubmitOrderDeps{
			MemberStore:     stores.MemberStore,
			OrderStore:      stores.OrderStore,
			SubmissionStore: stores.SubmissionStore,
			EmailSender:     emailSender,
			ShopEmail:       shopEmailAddress,
			EmailFrom:       emailFromAddress,
			Now:             timeNow,
			GenerateID:      generateID,
		}
		result, err := orchestrators.ExecuteSubmitOrder(r.Context(), input, deps)
		if err != nil {
			if errors.Is(err, orchestrators.ErrNothingOrdered) {
				w.WriteHeader(http.StatusBadRequest)
				renderTemplate(w, r, "order.html", orderFormData(r, input, map[string]string{
					"weeks": "최소 한 주는 수량을 입력해 주세요",
				}))
				return
			}
			internalError(w, err)
			return
		}

		renderTemplate(w, r, "order_done.html", map[string]any{
			"Name":          input.Name,
			"LinesAppended": result.LinesAppended,
			"MemberOutcome": string(result.MemberOutcome),
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAdmin handles GET /admin: the password gate when logged out, the
// joined order view plus recent submission log when logged in.
func handleAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		renderTemplate(w, r, "admin_login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	result, err := projections.QueryGetAdminOrders(r.Context(), projections.GetAdminOrdersDeps{
		OrderStore:  stores.OrderStore,
		MemberStore: stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	recent, err := stores.SubmissionStore.ListRecent(r.Context(), submissionLogLimit)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "admin.html", map[string]any{
		"CSRFToken":    csrf.Token(r),
		"Orders":       result.Orders,
		"MemberCount":  result.MemberCount,
		"OrderCount":   result.OrderCount,
		"UnmatchedCnt": result.UnmatchedCnt,
		"Submissions":  recent,
	})
}

// handleAdminLogin handles POST /admin/login
func handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	password := r.FormValue("password")
	if len(adminPasswordHash) == 0 ||
		bcrypt.CompareHashAndPassword(adminPasswordHash, []byte(password)) != nil {
		slog.Warn("admin_login_failed", "remote", r.RemoteAddr)
		w.WriteHeader(http.StatusUnauthorized)
		renderTemplate(w, r, "admin_login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Error":     "비밀번호가 올바르지 않습니다",
		})
		return
	}

	token, err := sessions.Create()
	if err != nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	middleware.SetSessionCookie(w, token)
	slog.Info("admin_login", "remote", r.RemoteAddr)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdminLogout handles POST /admin/logout
func handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAPIAdminOrders handles GET /api/admin/orders
func handleAPIAdminOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !middleware.IsAdmin(r.Context()) {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	result, err := projections.QueryGetAdminOrders(r.Context(), projections.GetAdminOrdersDeps{
		OrderStore:  stores.OrderStore,
		MemberStore: stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
