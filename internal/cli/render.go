package cli

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrijs2005/lunarjournal/internal/models"
)

// htmlPolicy strips every tag. Discovery content arrives from the backend
// as markup and is sanitized before it ever reaches the terminal.
var htmlPolicy = bluemonday.StrictPolicy()

// renderContent strips markup from backend-supplied content and unescapes
// entities for plain-text output.
func renderContent(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlPolicy.Sanitize(s)))
}

// formatDiscovery renders one discovery for the dashboard list. The
// [yours] marker mirrors the delete permission: it appears only when the
// viewer owns the record.
func formatDiscovery(d *models.Discovery, viewer *models.User) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s (id %s)\n", d.Category, d.Title, d.ID)
	fmt.Fprintf(&b, "    by %s on %s", d.Owner.Name, d.DiscoveryDate.Local().Format("2006-01-02"))
	if d.OwnedBy(viewer) {
		b.WriteString(" [yours]")
	}
	b.WriteString("\n")

	if c := renderContent(d.Content); c != "" {
		fmt.Fprintf(&b, "    %s\n", c)
	}
	if d.LunarPhoto != nil {
		fmt.Fprintf(&b, "    photo: %s\n", d.LunarPhoto.Thumbnail.URL)
	}

	return strings.TrimRight(b.String(), "\n")
}
