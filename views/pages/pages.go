// Package pages holds the static marketing pages and the quote wizard shell.
package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/voxcraft3d/voxcraft/internal/catalog"
	"github.com/voxcraft3d/voxcraft/views/helpers"
)

// Home is the landing page: value proposition plus calls to action.
func Home() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="hero">
<h1>Custom 3D printing, quoted in minutes</h1>
<p>Upload your model, pick a material and get a transparent price
before you commit. Small-batch FDM printing with a personal touch.</p>
<a class="btn btn-primary" href="/quote">Start a quote</a>
<a class="btn" href="/materials">Browse materials</a>
</section>
<section class="features">
<div class="feature">
<h2>Transparent pricing</h2>
<p>Material, electricity, labor and service fees itemized on every
quote. No surprises when the invoice arrives.</p>
</div>
<div class="feature">
<h2>Volume &amp; student discounts</h2>
<p>Bigger prints cost less per gram, and students always get 5% off
with a valid student ID.</p>
</div>
<div class="feature">
<h2>Pick up or ship</h2>
<p>Collect your print in person or have it packaged and shipped
anywhere in the country.</p>
</div>
</section>
`)
		return err
	})
}

// Materials renders the pricing table straight from the catalog so the
// marketing page can never drift from what the calculator charges.
func Materials(cat *catalog.Catalog) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Materials &amp; Pricing</h1>
<table class="pricing-table">
<thead><tr><th>Material</th><th>Price per gram</th><th>Colors in stock</th></tr></thead>
<tbody>
`); err != nil {
			return err
		}
		for _, m := range cat.Materials() {
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>`,
				html.EscapeString(m.Name), helpers.FormatPrice(m.PricePerGram)); err != nil {
				return err
			}
			for _, c := range m.Colors {
				class := "swatch"
				if !c.Available {
					class = "swatch swatch-out"
				}
				if _, err := fmt.Fprintf(w, `<span class="%s">%s</span> `, class, html.EscapeString(c.Name)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</td></tr>\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody>
</table>
<h2>Add-on services</h2>
<ul class="service-list">
`); err != nil {
			return err
		}
		for _, s := range cat.Services() {
			if _, err := fmt.Fprintf(w, "<li>%s: %s</li>\n",
				html.EscapeString(s.Label), helpers.FormatPrice(s.Fee)); err != nil {
				return err
			}
		}
		fees := cat.Fees()
		_, err := fmt.Fprintf(w, `</ul>
<h2>Fees &amp; discounts</h2>
<p>Every print includes a %s labor fee and a %s service fee.
Volume discounts start at 100 g and stack with the student discount,
capped at %s total.</p>
`, helpers.FormatPrice(fees.Labor), helpers.FormatPrice(fees.Service),
			helpers.FormatPercent(cat.Discounts().Ceiling))
		return err
	})
}

// QuoteWizard is the shell for the three-step quote flow. The step content
// is driven client-side against the JSON API; the server owns validation
// and pricing.
func QuoteWizard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Get a Quote</h1>
<ol class="wizard-steps">
<li data-stage="1">Model &amp; material</li>
<li data-stage="2">Print details</li>
<li data-stage="3">Review &amp; submit</li>
</ol>
<div id="quote-wizard" data-api="/api/quote">
<noscript><p>The quote wizard needs JavaScript. You can also email us
your model at quotes@voxcraft3d.example and we will quote it by hand.</p></noscript>
</div>
`)
		return err
	})
}

// FAQ answers the questions the quote flow raises most often.
func FAQ() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Frequently Asked Questions</h1>
<dl class="faq">
<dt>How is the price calculated?</dt>
<dd>Material weight times the per-gram price, plus an electricity
surcharge based on print time, plus flat labor and service fees and any
add-on services you pick. Discounts come off the subtotal.</dd>
<dt>What file formats do you accept?</dt>
<dd>STL, OBJ, 3MF and STEP, up to 100 MB per file.</dd>
<dt>How do I claim the student discount?</dt>
<dd>Tick the student box in the wizard and bring your student ID when
you pick up the print.</dd>
<dt>How long does a print take?</dt>
<dd>Most jobs ship within 3 to 5 business days. Pick the rush service
if you need it in 24 hours.</dd>
<dt>Is the quote binding?</dt>
<dd>Yes, the total you see at review is the price you pay, assuming the
model prints as uploaded.</dd>
</dl>
`)
		return err
	})
}

// Contact renders the shop's contact details.
func Contact() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Contact</h1>
<p>Questions about a quote or a custom job? Reach out directly.</p>
<ul class="contact-list">
<li>Email: <a href="mailto:hello@voxcraft3d.example">hello@voxcraft3d.example</a></li>
<li>Phone: +420 601 234 567</li>
<li>Workshop: Tiskarska 12, Prague, open Tue&ndash;Sat 10:00&ndash;18:00</li>
</ul>
`)
		return err
	})
}

// Privacy is the privacy policy page.
func Privacy() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Privacy Policy</h1>
<p>We collect only what we need to produce your quote: your contact
details, the file metadata you provide and the print options you pick.
Quote drafts are kept so you can resume them and are purged after they
go stale.</p>
<p>Contact details are shared with our email and phone verification
providers solely to confirm we can reach you. We never sell your data.</p>
`)
		return err
	})
}

// Terms is the terms of service page.
func Terms() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Terms of Service</h1>
<p>Quotes are binding for the uploaded model as described. We may
decline jobs that infringe third-party rights or exceed our printers'
capabilities. Payment is due on pickup or before shipping.</p>
<p>You retain all rights to your models. We delete uploaded model
metadata on request.</p>
`)
		return err
	})
}
