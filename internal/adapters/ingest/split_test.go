package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

func TestPathExtension(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "simple", path: "quotes.txt", want: "txt"},
		{name: "uppercase", path: "quotes.TXT", want: "txt"},
		{name: "mixed case", path: "quotes.Csv", want: "csv"},
		{name: "multiple dots uses last", path: "archive.tar.pdf", want: "pdf"},
		{name: "no extension", path: "quotes", want: ""},
		{name: "trailing dot", path: "quotes.", want: ""},
		{name: "nested path", path: "/data/in/quotes.docx", want: "docx"},
		{name: "dot in directory only", path: "/data.d/quotes", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pathExtension(tt.path))
		})
	}
}

func TestSplitQuoteLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantBody   string
		wantAuthor string
	}{
		{
			name:       "plain line",
			line:       "To be or not to be - Shakespeare",
			wantBody:   "To be or not to be",
			wantAuthor: "Shakespeare",
		},
		{
			name:       "no spaces around delimiter",
			line:       "Bark less-Rex",
			wantBody:   "Bark less",
			wantAuthor: "Rex",
		},
		{
			name:       "hyphen in author kept",
			line:       "Stay curious - Jean-Luc Picard",
			wantBody:   "Stay curious",
			wantAuthor: "Jean-Luc Picard",
		},
		{
			name:       "extra whitespace trimmed",
			line:       "   Treat yo self   -   Tom Haverford  ",
			wantBody:   "Treat yo self",
			wantAuthor: "Tom Haverford",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := splitQuoteLine("quotes.txt", 1, tt.line)

			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, quote.Body)
			assert.Equal(t, tt.wantAuthor, quote.Author)
		})
	}
}

func TestSplitQuoteLineMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "no delimiter", line: "a quote with no author"},
		{name: "empty body", line: " - Anonymous"},
		{name: "empty author", line: "Silence is golden - "},
		{name: "delimiter only", line: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := splitQuoteLine("quotes.txt", 7, tt.line)

			require.Error(t, err)
			assert.True(t, domain.IsMalformedRecord(err))

			var malformed *domain.MalformedRecordError

			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, "quotes.txt", malformed.Path)
			assert.Equal(t, 7, malformed.Line)
		})
	}
}
