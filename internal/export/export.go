// Package export writes generated questions as DOCX or XLSX documents.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/bloomgen/internal/questions"
)

// Substitutions maps placeholder keys (without braces) to values.
type Substitutions map[string]string

// Columns of the question table, in order.
var Columns = []string{"No.", "Question", "Level", "CO", "PO", "Marks"}

// Writer renders one document format.
type Writer interface {
	Ext() string
	ContentType() string
	Write(w io.Writer, subs Substitutions, res *questions.Result) error
}

// DefaultSubstitutions derives the header fields of a result.
func DefaultSubstitutions(res *questions.Result, now time.Time) Substitutions {
	return Substitutions{
		"SUBJECT":        res.Subject,
		"KIND":           res.Kind.Heading(),
		"DATE":           now.Format("02 Jan 2006"),
		"TOTAL_MARKS":    strconv.Itoa(res.TotalMarks()),
		"QUESTION_COUNT": strconv.Itoa(len(res.Records)),
	}
}

// Apply replaces every {{KEY}} in text in a single pass; placeholders
// inside substituted values are left as they are.
func (s Substitutions) Apply(text string) string {
	if !strings.Contains(text, "{{") || len(s) == 0 {
		return text
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", s[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Filename is deterministic for a result: subject slug, kind, syllabus hash
// and result id prefix.
func Filename(res *questions.Result, ext string) string {
	slug := questions.Slugify(res.Subject)
	if slug == "" {
		slug = "questions"
	}
	hash := res.SyllabusHash
	if len(hash) > 8 {
		hash = hash[:8]
	}
	name := slug + "-" + string(res.Kind)
	if hash != "" {
		name += "-" + hash
	}
	if id := strings.ReplaceAll(res.ID, "-", ""); id != "" {
		if len(id) > 8 {
			id = id[:8]
		}
		name += "-" + id
	}
	return name + ext
}

// ErrEmptyResult is returned when there is nothing to export.
var ErrEmptyResult = errors.New("no questions to export")

// Exporter writes documents under Dir.
type Exporter struct {
	Dir string
}

// Export renders res with wr into Dir and returns the file path. The file
// appears atomically.
func (e *Exporter) Export(ctx context.Context, wr Writer, subs Substitutions, res *questions.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if res == nil || len(res.Records) == 0 {
		return "", ErrEmptyResult
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(e.Dir, Filename(res, wr.Ext()))

	tmp, err := os.CreateTemp(e.Dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := wr.Write(tmp, subs, res); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename export: %w", err)
	}
	return path, nil
}

// ForExt picks a writer by file extension.
func ForExt(ext string, docxTemplate []byte) (Writer, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "docx":
		return &DOCXWriter{Template: docxTemplate}, nil
	case "xlsx":
		return &XLSXWriter{}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", ext)
}

func row(r questions.Record) []string {
	return []string{strconv.Itoa(r.Seq), r.Text, r.Level, r.CO, r.PO, strconv.Itoa(r.Marks)}
}
