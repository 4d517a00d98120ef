// Package export renders a finished translation next to its original in the
// formats people review translations in.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"line-translator/internal/textutil"
)

// Format is an export format name.
type Format string

const (
	FormatText       Format = "txt"
	FormatSideBySide Format = "side-by-side"
	FormatTSV        Format = "tsv"
	FormatJSON       Format = "json"
	FormatHTML       Format = "html"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatSideBySide, FormatTSV, FormatJSON, FormatHTML}
}

// Extension returns the file extension written for f.
func (f Format) Extension() string {
	switch f {
	case FormatTSV:
		return ".tsv"
	case FormatJSON:
		return ".json"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "txt_only", "text":
		return FormatText, nil
	case "side_by_side", "sidebyside":
		return FormatSideBySide, nil
	}
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", name)
}

// Document is an original file and its translation, paired by line.
type Document struct {
	SourceFile  string
	Original    []string
	Translation []string
}

// rows returns the line pairs; lines past the shorter side are dropped.
func (d Document) rows() [][2]string {
	n := min(len(d.Original), len(d.Translation))
	rows := make([][2]string, n)
	for i := 0; i < n; i++ {
		rows[i] = [2]string{d.Original[i], d.Translation[i]}
	}
	return rows
}

// Render produces the document in format f.
func Render(d Document, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(strings.Join(d.Translation, "\n")), nil
	case FormatSideBySide:
		return sideBySide(d), nil
	case FormatTSV:
		return tsv(d), nil
	case FormatJSON:
		return jsonDoc(d)
	case FormatHTML:
		return htmlDoc(d)
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

// OutputPath names the file a translation of path is saved to:
// <stem>-<suffix><ext> next to the original.
func OutputPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + suffix + ext
}

// ExportPath names an export of path in format f.
func ExportPath(path, suffix string, f Format) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + suffix + "-export" + f.Extension()
}

func sideBySide(d Document) []byte {
	width := 0
	for _, line := range d.Original {
		width = max(width, textutil.Len(line))
	}
	width += 5

	lines := make([]string, 0, len(d.Original))
	for _, r := range d.rows() {
		pad := strings.Repeat(" ", width-textutil.Len(r[0]))
		lines = append(lines, r[0]+pad+" │ "+r[1])
	}
	return []byte(strings.Join(lines, "\n"))
}

func tsv(d Document) []byte {
	lines := []string{"Original\tTranslation"}
	for _, r := range d.rows() {
		orig := strings.ReplaceAll(r[0], "\t", "    ")
		tran := strings.ReplaceAll(r[1], "\t", "    ")
		lines = append(lines, orig+"\t"+tran)
	}
	return []byte(strings.Join(lines, "\n"))
}

type jsonLine struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
}

type jsonDocument struct {
	SourceFile string     `json:"source_file"`
	Lines      []jsonLine `json:"lines"`
}

func jsonDoc(d Document) ([]byte, error) {
	doc := jsonDocument{SourceFile: d.SourceFile, Lines: []jsonLine{}}
	for _, r := range d.rows() {
		doc.Lines = append(doc.Lines, jsonLine{Original: r[0], Translation: r[1]})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode json export: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

var htmlTemplate = template.Must(template.New("export").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Translation - {{.Name}}</title>
    <style>
        body { background: #0d1117; color: #c9d1d9; font-family: 'Consolas', monospace; padding: 20px; }
        h1 { color: #ffd700; }
        table { width: 100%; border-collapse: collapse; }
        th { background: #161b22; padding: 12px; text-align: left; border-bottom: 2px solid #30363d; }
        td { padding: 8px 12px; border-bottom: 1px solid #21262d; vertical-align: top; white-space: pre-wrap; }
        tr:hover { background: #161b22; }
    </style>
</head>
<body>
    <h1>Translation export</h1>
    <p>File: {{.Name}}</p>
    <table>
        <tr>
            <th>#</th>
            <th>Original</th>
            <th>Translation</th>
        </tr>
{{- range $i, $r := .Rows}}
        <tr>
            <td style="color:#888">{{inc $i}}</td>
            <td>{{index $r 0}}</td>
            <td style="color:#ffd700">{{index $r 1}}</td>
        </tr>
{{- end}}
    </table>
</body>
</html>
`))

func htmlDoc(d Document) ([]byte, error) {
	var buf bytes.Buffer
	err := htmlTemplate.Execute(&buf, struct {
		Name string
		Rows [][2]string
	}{Name: filepath.Base(d.SourceFile), Rows: d.rows()})
	if err != nil {
		return nil, fmt.Errorf("render html export: %w", err)
	}
	return buf.Bytes(), nil
}
