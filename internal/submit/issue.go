package submit

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"astroview/internal/models"
)

// Issue labels picked up by the review workflow.
var (
	LabelsCreate = []string{"new-site"}
	LabelsUpdate = []string{"site-update"}
)

const issueFooter = "---\n*Generated by the automated submission pipeline*\n"

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderCreateIssue builds the title and body for a new-site submission.
// The fallback deep link reuses this content verbatim, so the rendered
// text is the single source of truth for both dispatch paths.
func RenderCreateIssue(rec models.SiteRecord) (string, string) {
	title := fmt.Sprintf("📍 New stargazing site: %s", rec.Name)

	var b strings.Builder
	b.WriteString("## Site information\n\n")
	fmt.Fprintf(&b, "**Name**: %s\n", rec.Name)
	fmt.Fprintf(&b, "**Coordinates**: %s°N, %s°E\n", formatCoordinate(rec.Latitude), formatCoordinate(rec.Longitude))
	if rec.Bortle != "" && rec.Bortle != models.ValueAbsent {
		fmt.Fprintf(&b, "**Bortle scale**: %s\n", rec.Bortle)
	}
	if rec.StandardLight != "" && rec.StandardLight != models.ValueAbsent {
		fmt.Fprintf(&b, "**Dark-sky standard**: %s\n", rec.StandardLight)
	}
	if rec.Sqm != "" && rec.Sqm != models.ValueAbsent {
		fmt.Fprintf(&b, "**SQM**: %s mag/arcsec²\n", rec.Sqm)
	}
	b.WriteString("\n")

	if rec.Climate != "" {
		fmt.Fprintf(&b, "### Climate\n%s\n\n", rec.Climate)
	}
	if rec.Accommodation != "" {
		fmt.Fprintf(&b, "### Accommodation\n%s\n\n", rec.Accommodation)
	}
	if rec.Notes != "" {
		fmt.Fprintf(&b, "### Notes\n%s\n\n", rec.Notes)
	}

	if images := rec.ImageList(); len(images) > 0 {
		b.WriteString("### Images\n")
		for i, url := range images {
			fmt.Fprintf(&b, "![site image %d](%s)\n", i+1, url)
		}
		b.WriteString("\n")
	}

	b.WriteString(issueFooter)
	return title, b.String()
}

// RenderUpdateIssue builds the title and body for a site-update
// submission: the target site, the itemized changeset, and the full
// updated entry for the reviewer.
func RenderUpdateIssue(original, updated models.SiteRecord, changes []models.FieldChange) (string, string) {
	name := original.Name
	if name == "" {
		name = updated.Name
	}
	id := original.ID
	if id == "" {
		id = updated.ID
	}

	title := fmt.Sprintf("✏️ Site update: %s", name)
	if id != "" {
		title = fmt.Sprintf("%s (%s)", title, id)
	}

	var b strings.Builder
	b.WriteString("### Target site\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	if id != "" {
		fmt.Fprintf(&b, "- ID: %s\n", id)
	}
	fmt.Fprintf(&b, "- Coordinates: %s°N, %s°E\n", formatCoordinate(original.Latitude), formatCoordinate(original.Longitude))
	b.WriteString("\n")

	b.WriteString("### Changes\n")
	if len(changes) == 0 {
		b.WriteString("No itemized changes (review the full updated entry below)\n\n")
	} else {
		for _, c := range changes {
			fmt.Fprintf(&b, "- %s: `%s` → `%s`\n", c.Field, valueOrDash(c.Before), valueOrDash(c.After))
		}
		b.WriteString("\n")
	}

	b.WriteString("### Updated entry (JSON)\n")
	entry, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		entry = []byte("{}")
	}
	fmt.Fprintf(&b, "```json\n%s\n```\n\n", entry)

	b.WriteString(issueFooter)
	return title, b.String()
}

func valueOrDash(v string) string {
	if v == "" {
		return models.ValueAbsent
	}
	return v
}
