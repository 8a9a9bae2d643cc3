// Package layout provides the shared page shell. Components are built with
// templ.ComponentFunc rather than generated templates; the pages here are
// small static shells and the live quote UI talks to the JSON API.
package layout

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// PageMeta carries the per-page SEO fields rendered into the head.
type PageMeta struct {
	Title       string
	Description string
}

// Page wraps body content in the site chrome.
func Page(meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<meta name="description" content="%s">
<link rel="stylesheet" href="/public/css/site.css">
</head>
<body>
<header class="site-header">
<a class="logo" href="/">VoxCraft 3D</a>
<nav>
<a href="/materials">Materials &amp; Pricing</a>
<a href="/quote">Get a Quote</a>
<a href="/faq">FAQ</a>
<a href="/contact">Contact</a>
</nav>
</header>
<main>
`, html.EscapeString(meta.Title), html.EscapeString(meta.Description)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `
</main>
<footer class="site-footer">
<a href="/privacy">Privacy Policy</a>
<a href="/terms">Terms of Service</a>
<p>&copy; VoxCraft 3D, custom FDM printing</p>
</footer>
<script src="/public/js/quote.js" defer></script>
</body>
</html>
`)
		return err
	})
}
