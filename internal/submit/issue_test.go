package submit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"astroview/internal/models"
)

func issueRecord() models.SiteRecord {
	return models.SiteRecord{
		ID:            "obs-1",
		Name:          "Gaomei Plateau",
		Latitude:      30.1,
		Longitude:     104.5,
		Bortle:        "3",
		StandardLight: "2",
		Sqm:           "21.5",
		Climate:       "dry autumn nights",
		Accommodation: "campsite nearby",
		Notes:         "bring warm clothes",
		Images:        []string{"http://img/a.jpg", "http://img/b.jpg"},
	}
}

func TestRenderCreateIssue_TitleAndCore(t *testing.T) {
	title, body := RenderCreateIssue(issueRecord())

	assert.Equal(t, "📍 New stargazing site: Gaomei Plateau", title)
	assert.Contains(t, body, "## Site information")
	assert.Contains(t, body, "**Name**: Gaomei Plateau")
	assert.Contains(t, body, "**Coordinates**: 30.1°N, 104.5°E")
	assert.Contains(t, body, "**Bortle scale**: 3")
	assert.Contains(t, body, "**Dark-sky standard**: 2")
	assert.Contains(t, body, "**SQM**: 21.5 mag/arcsec²")
}

func TestRenderCreateIssue_OptionalSections(t *testing.T) {
	_, body := RenderCreateIssue(issueRecord())

	assert.Contains(t, body, "### Climate\ndry autumn nights")
	assert.Contains(t, body, "### Accommodation\ncampsite nearby")
	assert.Contains(t, body, "### Notes\nbring warm clothes")
}

func TestRenderCreateIssue_ImagesNumbered(t *testing.T) {
	_, body := RenderCreateIssue(issueRecord())

	assert.Contains(t, body, "### Images")
	assert.Contains(t, body, "![site image 1](http://img/a.jpg)")
	assert.Contains(t, body, "![site image 2](http://img/b.jpg)")
}

func TestRenderCreateIssue_SentinelFieldsOmitted(t *testing.T) {
	rec := models.SiteRecord{Name: "Bare Hill", Latitude: 1, Longitude: 2}
	rec.Normalize()

	_, body := RenderCreateIssue(rec)

	assert.NotContains(t, body, "**Bortle scale**")
	assert.NotContains(t, body, "**Dark-sky standard**")
	assert.NotContains(t, body, "**SQM**")
	assert.NotContains(t, body, "### Climate")
	assert.NotContains(t, body, "### Images")
}

func TestRenderCreateIssue_CarriesFooter(t *testing.T) {
	_, body := RenderCreateIssue(issueRecord())
	assert.True(t, strings.HasSuffix(body, issueFooter))
}

func TestRenderUpdateIssue_TitleCarriesID(t *testing.T) {
	original := issueRecord()
	updated := original.Clone()
	updated.Bortle = "4"

	title, _ := RenderUpdateIssue(original, updated, nil)
	assert.Equal(t, "✏️ Site update: Gaomei Plateau (obs-1)", title)
}

func TestRenderUpdateIssue_TitleWithoutID(t *testing.T) {
	original := issueRecord()
	original.ID = ""
	updated := original.Clone()

	title, _ := RenderUpdateIssue(original, updated, nil)
	assert.Equal(t, "✏️ Site update: Gaomei Plateau", title)
}

func TestRenderUpdateIssue_ItemizedChanges(t *testing.T) {
	original := issueRecord()
	updated := original.Clone()
	updated.Bortle = "4"
	updated.Climate = ""

	changes := models.DiffRecords(original, updated)
	_, body := RenderUpdateIssue(original, updated, changes)

	assert.Contains(t, body, "### Target site")
	assert.Contains(t, body, "- Name: Gaomei Plateau")
	assert.Contains(t, body, "- ID: obs-1")
	assert.Contains(t, body, "### Changes")
	assert.Contains(t, body, "- bortle: `3` → `4`")
	assert.Contains(t, body, "- climate: `dry autumn nights` → `-`")
}

func TestRenderUpdateIssue_FullEntryJSON(t *testing.T) {
	original := issueRecord()
	updated := original.Clone()
	updated.Sqm = "21.8"

	_, body := RenderUpdateIssue(original, updated, nil)

	assert.Contains(t, body, "### Updated entry (JSON)")
	assert.Contains(t, body, "```json")
	assert.Contains(t, body, `"sqm": "21.8"`)
}

func TestBuildIssueLink_EncodesContent(t *testing.T) {
	link := BuildIssueLink("astro-maps", "site-map", "📍 New site", "line one\nline two", []string{"new-site", "triage"})

	assert.True(t, strings.HasPrefix(link, "https://github.com/astro-maps/site-map/issues/new?"))
	assert.Contains(t, link, "labels=new-site%2Ctriage")
	assert.Contains(t, link, "body=line+one%0Aline+two")
}

func TestBuildIssueLink_NoLabels(t *testing.T) {
	link := BuildIssueLink("owner", "repo", "title", "body", nil)
	assert.NotContains(t, link, "labels=")
}

func TestBuildIssueLink_RoundTripsThroughURLDecoding(t *testing.T) {
	title, body := RenderCreateIssue(issueRecord())
	link := BuildIssueLink("owner", "repo", title, body, LabelsCreate)

	decodedTitle, decodedBody := decodeIssueLink(t, link)
	assert.Equal(t, title, decodedTitle)
	assert.Equal(t, body, decodedBody)
}
