package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// extractPDF returns the text of every page in order, one page per line
// group. When the file cannot be opened as-is it is rewritten once by pdfcpu
// in relaxed mode, which fixes many broken xref tables.
func (e *FileExtractor) extractPDF(content []byte) (string, error) {
	r, err := openPDF(content)
	if err != nil {
		e.log.Warn("pdf open failed, attempting repair", "err", err)
		repaired, repErr := repairPDF(content)
		if repErr != nil {
			return "", fmt.Errorf("%w: %v (repair: %v)", ErrParse, err, repErr)
		}
		r, err = openPDF(repaired)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrParse, err)
		}
	}

	var textBuilder strings.Builder
	numPages := r.NumPage()
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.log.Debug("skipping page without extractable text", "page", pageNum, "err", err)
			continue
		}
		if text == "" {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

// openPDF turns a panic inside the reader (truncated or mangled trailers
// trigger out-of-range slicing) into an error so that repair is still tried.
func openPDF(content []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("pdf reader: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(content), int64(len(content)))
}

func repairPDF(content []byte) ([]byte, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(content), &out, cfg); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
