package web

import "net/http"

// registerRoutes attaches all application routes to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/order", http.StatusSeeOther)
	})
	mux.HandleFunc("/order", handleOrder)
	mux.HandleFunc("/admin", handleAdmin)
	mux.HandleFunc("/admin/login", handleAdminLogin)
	mux.HandleFunc("/admin/logout", handleAdminLogout)
	mux.HandleFunc("/api/admin/orders", handleAPIAdminOrders)
}
