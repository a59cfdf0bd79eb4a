package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/flyerhub/prospektor/internal/model"
)

// Selectors for the flyer card markup on retailer pages.
const (
	// cardSelector matches one flyer card.
	cardSelector = "div.brochure-thumb"

	// expiredSelector marks cards the site flags as no longer valid.
	expiredSelector = "div.grid-item-old"

	// lazyImageSelector matches the lazy-loaded flyer preview image,
	// which carries its URL in data-src rather than src.
	lazyImageSelector = "img.lazyloadBrochure"

	// validitySelector and validityFallbackSelector match the validity
	// period fragment. The site uses responsive visibility classes, so
	// either variant may carry the text.
	validitySelector         = "small.visible-sm"
	validityFallbackSelector = "small.hidden-sm"
)

// Brochures extracts flyer cards from retailer-page markup.
//
// Per-card policy, applied independently so one malformed card never
// aborts the page:
//   - cards flagged as expired are skipped with a warning
//   - missing title: skip the card with a warning (an untitled flyer is
//     not useful output)
//   - missing thumbnail: keep the card, thumbnail empty, with a warning
//   - missing validity text: keep the card with an empty string; the
//     normalizer nulls the dates
//
// The returned error is non-nil only when the markup cannot be parsed at
// all or baseURL is invalid.
func Brochures(markup []byte, shopName, baseURL string) ([]model.RawBrochure, []model.Warning, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse retailer page for %s: %w", shopName, err)
	}

	brochures := make([]model.RawBrochure, 0)
	warnings := make([]model.Warning, 0)

	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		if card.Find(expiredSelector).Length() > 0 {
			warnings = append(warnings, model.Warning{
				Kind: model.WarnExpiredCard,
				Shop: shopName,
			})
			return
		}

		title := strings.TrimSpace(card.Find("strong").First().Text())
		if title == "" {
			warnings = append(warnings, model.Warning{
				Kind: model.WarnMissingTitle,
				Shop: shopName,
			})
			return
		}

		thumbnail := extractThumbnail(card, base)
		if thumbnail == "" {
			warnings = append(warnings, model.Warning{
				Kind:   model.WarnMissingThumbnail,
				Shop:   shopName,
				Detail: title,
			})
		}

		brochures = append(brochures, model.RawBrochure{
			Title:        title,
			Thumbnail:    thumbnail,
			ValidityText: extractValidity(card),
			ShopName:     shopName,
		})
	})

	return brochures, warnings, nil
}

// extractThumbnail finds the flyer preview image URL on a card.
// The site lazy-loads previews, so data-src on the lazyload image is the
// primary source; a plain img src or data-src is the fallback. Returns an
// absolute URL or an empty string.
func extractThumbnail(card *goquery.Selection, base *url.URL) string {
	if src, ok := card.Find(lazyImageSelector).First().Attr("data-src"); ok {
		if resolved := resolveURL(base, src); resolved != "" {
			return resolved
		}
	}

	img := card.Find("img").First()
	if src, ok := img.Attr("src"); ok {
		if resolved := resolveURL(base, src); resolved != "" {
			return resolved
		}
	}
	if src, ok := img.Attr("data-src"); ok {
		if resolved := resolveURL(base, src); resolved != "" {
			return resolved
		}
	}

	return ""
}

// extractValidity returns the raw validity-period text of a card, or an
// empty string when neither visibility variant carries it.
func extractValidity(card *goquery.Selection) string {
	text := strings.TrimSpace(card.Find(validitySelector).First().Text())
	if text == "" {
		text = strings.TrimSpace(card.Find(validityFallbackSelector).First().Text())
	}
	return text
}
