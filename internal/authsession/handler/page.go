package handler

import (
	"html/template"
	"net/http"
)

type pageData struct {
	Title   string
	Message string
}

var (
	pageReceived       = pageData{Title: "Authorization received", Message: "You can close this tab and return to PK News in your terminal."}
	pageCancelled      = pageData{Title: "Sign-in cancelled", Message: "No account was linked. Return to your terminal to choose another method."}
	pageFailed         = pageData{Title: "Sign-in failed", Message: "Google reported an error. Return to your terminal to try again."}
	pageAlreadyHandled = pageData{Title: "Already handled", Message: "This sign-in attempt has already completed."}
)

var callbackPage = template.Must(template.New("callback").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>PK News · {{.Title}}</title>
<style>
body{font-family:-apple-system,system-ui,sans-serif;background:#000;color:#fff;display:flex;align-items:center;justify-content:center;height:100vh;margin:0}
main{text-align:center;max-width:28rem;padding:2rem}
h1{font-size:1.75rem;margin-bottom:.5rem}
p{color:#8E8E93}
@media (prefers-color-scheme: light){body{background:#F2F2F7;color:#000}}
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</main>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = callbackPage.Execute(w, data)
}
