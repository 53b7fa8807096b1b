package ingest

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

// docxDocumentPath is the fixed archive member holding the document body in
// the OOXML package layout.
const docxDocumentPath = "word/document.xml"

// DocxIngestor parses Office Open XML word-processing documents. Each
// non-empty paragraph is treated as one quote line; run formatting inside a
// paragraph is flattened to its text content.
type DocxIngestor struct {
	extensions extensionSet
}

// NewDocxIngestor creates the DOCX format variant.
func NewDocxIngestor() *DocxIngestor {
	return &DocxIngestor{extensions: extensionSet{"docx"}}
}

// Extensions implements ports.QuoteIngestor.
func (g *DocxIngestor) Extensions() []string {
	return g.extensions.list()
}

// CanIngest implements ports.QuoteIngestor.
func (g *DocxIngestor) CanIngest(path string) bool {
	return g.extensions.contains(path)
}

// Parse implements ports.QuoteIngestor.
func (g *DocxIngestor) Parse(ctx context.Context, path string) ([]domain.Quote, error) {
	if !g.CanIngest(path) {
		return nil, domain.NewUnsupportedFormatError(path, pathExtension(path))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, domain.NewExtractionFailedError("docx", "not a valid OOXML package: "+err.Error())
		}

		return nil, domain.NewIOError("open", path, err)
	}
	defer func() { _ = archive.Close() }()

	document, err := archive.Open(docxDocumentPath)
	if err != nil {
		return nil, domain.NewExtractionFailedError("docx", "package has no "+docxDocumentPath)
	}
	defer func() { _ = document.Close() }()

	paragraphs, err := docxParagraphs(document)
	if err != nil {
		return nil, domain.NewExtractionFailedError("docx", err.Error())
	}

	var quotes []domain.Quote

	line := 0

	for _, paragraph := range paragraphs {
		line++

		if strings.TrimSpace(paragraph) == "" {
			continue
		}

		quote, err := splitQuoteLine(path, line, paragraph)
		if err != nil {
			return nil, err
		}

		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// docxParagraphs streams document.xml and collects the concatenated text of
// each top-level <w:p> element. Paragraphs can nest (tables, text boxes), so
// depth tracking flattens inner paragraphs into the outer one instead of
// cutting it short at the first inner </w:p>. Streaming keeps memory flat for
// large documents and avoids modelling the full OOXML schema.
func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs     []string
		current        strings.Builder
		paragraphDepth int
		inText         bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "p":
				paragraphDepth++
				if paragraphDepth == 1 {
					current.Reset()
				}
			case "t":
				inText = paragraphDepth > 0
			case "tab":
				if paragraphDepth > 0 {
					current.WriteByte('\t')
				}
			}
		case xml.CharData:
			if inText {
				current.Write(element)
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "t":
				inText = false
			case "p":
				if paragraphDepth == 1 {
					paragraphs = append(paragraphs, current.String())
				}

				if paragraphDepth > 0 {
					paragraphDepth--
				}
			}
		}
	}

	return paragraphs, nil
}
