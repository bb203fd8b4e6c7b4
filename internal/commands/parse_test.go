package commands_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/targetdigest/ietrack/internal/source"
)

func TestParse_HTML(t *testing.T) {
	out, _, err := runIETrack(t, "parse", testdataPath(t, "ie_page.html"), "--base-url", "https://example.test")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, source.Header, lines[0])
	assert.Contains(t, lines[1], "https://example.test/PDFGen/pdfgen.prg?filingid=3001")
	assert.Contains(t, lines[2], "filingid=3002")
}

func TestParse_CSV(t *testing.T) {
	out, _, err := runIETrack(t, "parse", testdataPath(t, "filings.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, `"Neighbors, United"`)
}

func TestParse_Unsupported(t *testing.T) {
	_, _, err := runIETrack(t, "parse", "page.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrUnsupported)
}
