package api

import (
	"html/template"
	"net/http"
)

// Inline pages for manual credential entry. Deliberately unstyled beyond
// the basics: this surface exists for operators, not end users.

var indexTpl = template.Must(template.New("index").Parse(`
<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Claude.ai Bridge</title>
    <style>
      body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 2rem; max-width: 48rem; }
      code { background:#f3f3f3; padding:.15rem .3rem; border-radius:.25rem; }
    </style>
  </head>
  <body>
    <h1>Claude.ai Bridge</h1>
    <p>OpenAI-compatible endpoint: <code>POST /v1/chat/completions</code></p>
    <ul>
      <li><a href="/login">Login to Claude.ai</a></li>
      <li><a href="/check_login">Check login status</a></li>
      <li><a href="/config">Update session cookie</a></li>
      <li><a href="/list_chats">List chats</a></li>
      <li><a href="/list_projects">List projects</a></li>
      <li><a href="/list_organizations">List organizations</a></li>
    </ul>
  </body>
</html>
`))

var loginTpl = template.Must(template.New("login").Parse(`
<!doctype html>
<html>
  <head><meta charset="utf-8" /><title>Login to Claude.ai</title></head>
  <body>
    <h1>Login to Claude.ai</h1>
    <p>Paste the <code>sessionKey</code> cookie from a logged-in claude.ai browser session.</p>
    <form method="POST">
      <label for="session_key">Session key:</label><br>
      <input type="text" id="session_key" name="session_key" size="60" required><br><br>
      <input type="submit" value="Login">
    </form>
  </body>
</html>
`))

var configTpl = template.Must(template.New("config").Parse(`
<!doctype html>
<html>
  <head><meta charset="utf-8" /><title>Claude.ai Configuration</title></head>
  <body>
    <h1>Claude.ai Configuration</h1>
    <form method="POST">
      <label for="cookie">Enter new Claude.ai cookie:</label><br>
      <input type="text" id="cookie" name="cookie" size="60"><br><br>
      <input type="submit" value="Update Cookie">
    </form>
  </body>
</html>
`))

func Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = indexTpl.Execute(w, nil)
	}
}

func LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = loginTpl.Execute(w, nil)
	}
}

func ConfigPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = configTpl.Execute(w, nil)
	}
}
