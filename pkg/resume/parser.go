package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/vbncursed/talentgate/pkg/apperr"
)

var (
	reTags     = regexp.MustCompile(`<[^>]+>`)
	reNonText  = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?;@#+-]`)
	reAnySpace = regexp.MustCompile(`\s+`)
)

// ExtractText converts an uploaded document into cleaned plain text. PDF and
// DOCX get real extraction, everything else is decoded as UTF-8 text. Empty
// output is a hard failure: downstream scoring needs non-empty text, so there
// is no silent empty-text success. No retries here; retries belong to the
// network-bound matching client.
func ExtractText(doc Document) (string, error) {
	var text string
	var err error
	switch {
	case doc.MimeType == "application/pdf":
		text, err = extractTextFromPDF(doc.Data)
	case doc.MimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		strings.HasSuffix(strings.ToLower(doc.Filename), ".docx"):
		text, err = extractTextFromDocx(doc.Data)
	default:
		text = string(doc.Data)
	}
	if err != nil {
		return "", extractionError(doc, err)
	}
	text = cleanText(text)
	if text == "" {
		return "", extractionError(doc, errors.New("no text extracted"))
	}
	return text, nil
}

func extractionError(doc Document, err error) error {
	return &apperr.ExtractionError{
		Filename: doc.Filename,
		MimeType: doc.MimeType,
		Size:     doc.Size,
		Err:      err,
	}
}

func extractTextFromPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	r, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractTextFromDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			defer rc.Close()
			docXML, err = io.ReadAll(rc)
			if err != nil {
				return "", err
			}
			break
		}
	}
	if len(docXML) == 0 {
		return "", errors.New("no document.xml found in docx")
	}
	xml := string(docXML)
	// Convert paragraph boundaries to newlines (very naive but effective).
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	return reTags.ReplaceAllString(xml, " "), nil
}

// cleanText strips control and decorative characters, keeping sentence
// punctuation and the symbols that appear in emails and skill tokens, then
// collapses whitespace runs to single spaces.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = reNonText.ReplaceAllString(s, "")
	s = reAnySpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
