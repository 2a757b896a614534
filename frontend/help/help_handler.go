package help

import (
	"net/http"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/cache"
)

func HelpPageQueryHandler(rbacCache *cache.RbacRolesCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		var codes []string
		if rbacCache != nil {
			codes = rbacCache.CodesForRole(session.User.Role)
		}
		if err := html.WritePage(w, r, "Help", HelpPage(BuildPageData(session.User.Role, codes))); err != nil {
			http.Error(w, "failed to render help page", http.StatusInternalServerError)
			return
		}
	}
}
