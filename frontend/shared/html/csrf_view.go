package html

import "strings"

// Names shared with the CSRF middleware.
const (
	CSRFCookie = "X-CSRF-Token"
	CSRFField  = "_csrf"
)

const csrfScript = `<script>
document.addEventListener("submit", function (ev) {
  var form = ev.target;
  if ((form.method || "").toLowerCase() !== "post") return;
  var match = document.cookie.match(/(?:^|;\s*)__COOKIE__=([^;]*)/);
  if (!match) return;
  var field = form.querySelector("input[name='__FIELD__']");
  if (!field) {
    field = document.createElement("input");
    field.type = "hidden";
    field.name = "__FIELD__";
    form.appendChild(field);
  }
  field.value = decodeURIComponent(match[1]);
}, true);
</script>`

// CSRFFormScript copies the CSRF cookie into a hidden field of every POST
// form at submit time, including forms rendered after load.
func CSRFFormScript() string {
	return strings.NewReplacer("__COOKIE__", CSRFCookie, "__FIELD__", CSRFField).Replace(csrfScript)
}
