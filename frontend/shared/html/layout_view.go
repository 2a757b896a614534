package html

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/nav"
)

// Flash is the one-shot message carried on redirects as ?status= or ?error=.
type Flash struct {
	Status string
	Error  string
}

func FlashFromRequest(r *http.Request) Flash {
	q := r.URL.Query()
	return Flash{Status: strings.TrimSpace(q.Get("status")), Error: strings.TrimSpace(q.Get("error"))}
}

// Page wraps body in the dashboard chrome. An empty nav renders the bare
// layout used by the login screen.
func Page(title string, topNav nav.TopNavData, flash Flash, body templ.Component) templ.Component {
	return Render(func(ctx context.Context, b *Writer) {
		b.Rawf(`<!doctype html><html><head><meta charset="utf-8"><title>%s - labdesk</title>`, title)
		b.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><link rel="stylesheet" href="/assets/app.css"></head><body>`)
		if topNav.Username != "" {
			renderTopNav(b, topNav)
		}
		b.Raw(`<main>`)
		if flash.Status != "" {
			b.Rawf(`<div class="toast ok" role="status">%s</div>`, flash.Status)
		}
		if flash.Error != "" {
			b.Rawf(`<div class="toast err" role="alert">%s</div>`, flash.Error)
		}
		b.Rawf(`<h1>%s</h1>`, title)
		b.Component(ctx, body)
		b.Raw(`</main><div id="live-toast" class="toast live" hidden></div>`)
		b.Raw(CSRFFormScript())
		if topNav.Username != "" {
			b.Raw(LiveScript())
		}
		b.Raw(`</body></html>`)
	})
}

func renderTopNav(b *Writer, topNav nav.TopNavData) {
	b.Raw(`<nav class="topnav"><a class="brand" href="/">labdesk</a><ul>`)
	for _, l := range topNav.Links {
		if l.Active {
			b.Rawf(`<li><a class="active" href="%s">%s</a></li>`, l.Href, l.Label)
			continue
		}
		b.Rawf(`<li><a href="%s">%s</a></li>`, l.Href, l.Label)
	}
	b.Raw(`</ul><span class="who">`)
	b.Text(topNav.Username + " (" + topNav.Role + ")")
	if topNav.Department != "" {
		b.Text(" · " + topNav.Department)
	}
	b.Raw(`</span><form method="post" action="/logout"><button type="submit">Log out</button></form></nav>`)
}

// LiveScript subscribes to table change broadcasts and shows a refresh hint
// when the table on this page changed elsewhere.
func LiveScript() string {
	return `<script>
(function () {
  var table = document.querySelector("[data-table]");
  if (!table || !window.WebSocket) return;
  var name = table.getAttribute("data-table");
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + "/lab/ws");
  ws.onmessage = function (ev) {
    var msg;
    try { msg = JSON.parse(ev.data); } catch (e) { return; }
    if (msg.type !== "table" || msg.id !== name) return;
    var toast = document.getElementById("live-toast");
    toast.innerHTML = 'Data changed. <a href="' + location.pathname + location.search + '">Refresh</a>';
    toast.hidden = false;
  };
})();
</script>`
}

// WritePage renders body inside the layout for the signed-in user.
func WritePage(w http.ResponseWriter, r *http.Request, title string, body templ.Component) error {
	session, _ := sessioncontext.GetSessionFromContext(r.Context())
	topNav := nav.BuildTopNavData(session, r.URL.Path)
	if d, ok := sessioncontext.GetDepartmentFromContext(r.Context()); ok {
		topNav.Department = d.Name
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return Page(title, topNav, FlashFromRequest(r), body).Render(r.Context(), w)
}
