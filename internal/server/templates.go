package server

import "html/template"

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
</head>
<body>
<nav>
<span><strong>gabeln.jetzt</strong></span>
<a href="/">Home</a>
<a href="/atom.xml">Atom Feed</a>
<a href="/about">About</a>
</nav>
<main>
{{template "content" .}}
</main>
<footer>
<p>gabeln.jetzt is powered by the
<a href="https://docs.github.com/en/rest">GitHub API</a> and the
<a href="https://developers.giphy.com/">Giphy API</a>.</p>
</footer>
</body>
</html>`

const indexContent = `{{define "content"}}
<div class="feed">
{{range .Events}}
<div class="event">
<a href="https://github.com/{{.Actor}}"><img src="{{.AvatarURL}}" width="48" height="48" alt="{{.Actor}}"></a>
<div class="summary">
<span class="date">{{.Age}}</span>
<p>{{.Actor}} forked <a href="https://github.com/{{.Repo}}">{{.Repo}}</a>
at <a href="{{.ForkURL}}">{{.ForkFullName}}</a>!</p>
</div>
</div>
{{else}}
<p>No forks collected yet.</p>
{{end}}
</div>
{{end}}`

const aboutContent = `{{define "content"}}
<h1>About</h1>
<p>This site contains a feed for forks of github repositories by a couple of users.</p>
{{end}}`

const notFoundContent = `{{define "content"}}
<h1>Weeeeeeee!</h1>
<p>You reached the end of the internet.</p>
<a href="/">Go back</a>
{{end}}`

func parseTemplates() (index, about, notFound *template.Template) {
	index = template.Must(template.Must(template.New("index").Parse(layoutTemplate)).Parse(indexContent))
	about = template.Must(template.Must(template.New("about").Parse(layoutTemplate)).Parse(aboutContent))
	notFound = template.Must(template.Must(template.New("notFound").Parse(layoutTemplate)).Parse(notFoundContent))
	return index, about, notFound
}
