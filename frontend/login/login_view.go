package login

import (
	"context"

	"labdesk/frontend/shared/html"
)

func GetLoginScreen() html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Raw(`<form class="stack login" method="post" action="/login">`)
		html.Input(b, "Username", "username", "text", "", `autocomplete="username" required autofocus`)
		html.Input(b, "Password", "password", "password", "", `autocomplete="current-password" required`)
		b.Raw(`<button type="submit">Sign in</button></form>`)
	})
}
