// Package htmltomarkdown converts extracted HTML fragments into clean,
// stable markdown-flavoured text using JohannesKaufmann/html-to-markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sift"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Normalizer implements sift.Normalizer at compile time.
var _ sift.Normalizer = (*Normalizer)(nil)

// NonContentSelectors are removed before conversion.
var NonContentSelectors = []string{
	"script",
	"style",
	"noscript",
	"template",
	"iframe",
	"object",
	"embed",
	"svg",
	"canvas",
	"form",
	"input",
	"button",
	"select",
	"textarea",
	".ad",
	".ads",
	".advert",
	".advertisement",
	"aside",
	".sidebar",
	"#sidebar",
	"#comments",
	".comments",
	".comment",
	".share",
	".sharing",
	".social-share",
	".share-buttons",
	".author-bio",
	".author-box",
	".about-author",
	".newsletter",
	".newsletter-signup",
	".subscribe",
}

var (
	styleBlock   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	imageRef     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRef      = regexp.MustCompile(`\[((?:\\.|[^\]\\])*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	ruleLine     = regexp.MustCompile(`(?m)^[ \t]*\*[ \t]*\*[ \t]*\*[ \t*]*$`)
	orderedStart = regexp.MustCompile(`(?m)^([ \t]*)(\d+)\.([ \t])`)
	bulletStart  = regexp.MustCompile(`(?m)^([ \t]*)[*+•][ \t]+`)
	trailingWS   = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// bracketEsc undoes the converter's escaping of brackets in link text.
var bracketEsc = strings.NewReplacer(`\[`, "[", `\]`, "]")

// Normalizer strips non-content elements from HTML, sanitizes it and
// converts it to markdown.
type Normalizer struct {
	conv   *converter.Converter
	policy *bluemonday.Policy
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")

	return &Normalizer{conv: conv, policy: policy}
}

// Normalize converts an HTML fragment into cleaned markdown text.
func (n *Normalizer) Normalize(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sift.Errorf(sift.EINVALID, "empty HTML input")
	}

	html = styleBlock.ReplaceAllString(html, "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find(strings.Join(NonContentSelectors, ", ")).Remove()

	body, err := doc.Find("body").First().Html()
	if err != nil {
		return "", err
	}

	md, err := n.conv.ConvertString(n.policy.Sanitize(body))
	if err != nil {
		return "", err
	}

	return Clean(md), nil
}

// Clean applies the deterministic markdown post-processing pass: images are
// dropped, links become "text (url)", leading ordered-list markers are
// escaped, bullets become "-", blank line runs collapse to one blank line
// and surrounding whitespace is trimmed.
func Clean(md string) string {
	md = imageRef.ReplaceAllString(md, "")
	md = linkRef.ReplaceAllStringFunc(md, func(m string) string {
		sub := linkRef.FindStringSubmatch(m)
		text, url := strings.TrimSpace(bracketEsc.Replace(sub[1])), sub[2]
		if text == "" || text == url {
			return url
		}
		return text + " (" + url + ")"
	})
	md = orderedStart.ReplaceAllString(md, `$1$2\.$3`)
	md = ruleLine.ReplaceAllString(md, "---")
	md = bulletStart.ReplaceAllString(md, "$1- ")
	md = trailingWS.ReplaceAllString(md, "")
	md = blankRuns.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}
