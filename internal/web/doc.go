package web

// Package web serves the HTML front-end and the JSON API over net/http.
