package http

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMimeType is used for uploads that do not name a type.
const DefaultMimeType = "application/octet-stream"

// File is a file upload. MimeType defaults to DefaultMimeType and PostName,
// the file name sent to the server, defaults to the base name of Path.
type File struct {
	Path     string
	MimeType string
	PostName string
}

// Upload is a shorthand for a File with default type and name.
func Upload(path string) File {
	return File{Path: path}
}

func (f File) mimeType() string {
	if f.MimeType == "" {
		return DefaultMimeType
	}
	return f.MimeType
}

func (f File) postName() string {
	if f.PostName == "" {
		return filepath.Base(f.Path)
	}
	return f.PostName
}

// Files maps form field names to uploads.
type Files map[string]File

// request is a fully resolved request, ready for the wire.
type request struct {
	method    string
	url       string
	headers   map[string]string
	userAgent string
	form      string
	fields    []Field
	files     Files
	multipart bool
	insecure  bool
}

// sendsBody reports whether data travels in the body rather than the query string.
func sendsBody(method string) bool {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return false
	default:
		return true
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// buildMultipartBody creates a multipart/form-data body. Files come first,
// then regular fields, matching the curl call.
func buildMultipartBody(fields []Field, files Files, baseDir string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, name := range sortedKeys(files) {
		f := files[name]
		filePath := resolvePath(f.Path, baseDir)

		if err := validatePathWithinBase(filePath, baseDir); err != nil {
			return nil, "", err
		}

		file, err := os.Open(filePath)
		if err != nil {
			return nil, "", fmt.Errorf("opening upload %q: %w", name, err)
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(name), escapeQuotes(f.postName())))
		h.Set("Content-Type", f.mimeType())

		part, err := writer.CreatePart(h)
		if err != nil {
			file.Close()
			return nil, "", err
		}

		_, err = io.Copy(part, file)
		file.Close()
		if err != nil {
			return nil, "", fmt.Errorf("copying upload %q: %w", name, err)
		}
	}

	for _, field := range fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

func resolvePath(path, baseDir string) string {
	if !filepath.IsAbs(path) && baseDir != "" {
		return filepath.Join(baseDir, path)
	}
	return path
}

// validatePathWithinBase checks that the resolved path stays within the base directory
// to prevent path traversal attacks
func validatePathWithinBase(path, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %v", err)
	}

	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %v", err)
	}

	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) && cleanPath != cleanBase {
		return fmt.Errorf("path traversal detected: %s is outside allowed directory %s", path, baseDir)
	}

	return nil
}

// curlCall renders the request as an equivalent curl command line.
func curlCall(r *request) string {
	var b strings.Builder
	b.WriteString(`curl -Ssw "%{http_code}"`)

	switch r.method {
	case "GET":
		b.WriteString(" -G")
	case "HEAD":
		b.WriteString(" -I")
	default:
		b.WriteString(" -X " + r.method)
	}

	if r.userAgent != "" {
		b.WriteString(" -A " + shellQuote(r.userAgent))
	}

	// -I already prints the headers
	if r.method != "HEAD" {
		b.WriteString(" -D -")
	}

	keys := make([]string, 0, len(r.headers))
	for k := range r.headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" -H " + shellQuote(k+": "+r.headers[k]))
	}

	if sendsBody(r.method) {
		if r.multipart {
			for _, name := range sortedKeys(r.files) {
				f := r.files[name]
				b.WriteString(" -F " + shellQuote(fmt.Sprintf(`%s=@"%s";type=%s;filename="%s"`,
					name, escapeQuotes(f.Path), f.mimeType(), escapeQuotes(f.postName()))))
			}
			for _, field := range r.fields {
				b.WriteString(" -F " + shellQuote(field.Name+"="+field.Value))
			}
		} else if r.form != "" {
			b.WriteString(" -d " + shellQuote(r.form))
		}
	}

	if r.insecure {
		b.WriteString(" -k")
	}

	b.WriteString(" " + shellQuote(r.url))
	return b.String()
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
