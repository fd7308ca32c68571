package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/diplomat/packages/http"
)

// parseHeaders turns "Name: value" arguments into a header map.
func parseHeaders(args []string) (map[string]string, error) {
	headers := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (expected \"Name: value\")", arg)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// parseData turns key=value arguments into request data. Bracketed keys
// nest: user[name]=x becomes {"user": {"name": "x"}} and ids[]=1 appends to a
// list. Repeating a plain key also builds a list.
func parseData(args []string) (http.Values, error) {
	data := http.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid data %q (expected key=value)", arg)
		}
		path, err := splitKey(key)
		if err != nil {
			return nil, err
		}
		if err := setValue(data, path, value); err != nil {
			return nil, fmt.Errorf("invalid data %q: %w", arg, err)
		}
	}
	return data, nil
}

// splitKey splits user[name][] into [user name ""].
func splitKey(key string) ([]string, error) {
	base, rest, nested := strings.Cut(key, "[")
	if base == "" {
		return nil, fmt.Errorf("invalid key %q", key)
	}
	path := []string{base}
	if !nested {
		return path, nil
	}

	rest = "[" + rest
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("invalid key %q", key)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("invalid key %q: unclosed bracket", key)
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path, nil
}

func setValue(m map[string]any, path []string, value string) error {
	name, rest := path[0], path[1:]
	existing, exists := m[name]

	switch {
	case len(rest) == 0:
		switch v := existing.(type) {
		case nil:
			m[name] = value
		case []any:
			m[name] = append(v, value)
		case string:
			m[name] = []any{v, value}
		default:
			return fmt.Errorf("%s is already a nested value", name)
		}
		return nil

	case len(rest) == 1 && rest[0] == "":
		list, ok := existing.([]any)
		if exists && !ok {
			return fmt.Errorf("%s is not a list", name)
		}
		m[name] = append(list, value)
		return nil
	}

	child, ok := existing.(map[string]any)
	if exists && !ok {
		return fmt.Errorf("%s is not a nested value", name)
	}
	if !ok {
		child = map[string]any{}
		m[name] = child
	}
	if rest[0] == "" {
		return fmt.Errorf("%s: [] may only appear last", name)
	}
	return setValue(child, rest, value)
}

// parseFiles turns name=@path[;type=mime][;filename=name] arguments into
// uploads.
func parseFiles(args []string) (http.Files, error) {
	files := make(http.Files, len(args))
	for _, arg := range args {
		name, target, ok := strings.Cut(arg, "=")
		if !ok || name == "" || !strings.HasPrefix(target, "@") {
			return nil, fmt.Errorf("invalid file %q (expected name=@path)", arg)
		}

		parts := strings.Split(target[1:], ";")
		file := http.File{Path: parts[0]}
		if file.Path == "" {
			return nil, fmt.Errorf("invalid file %q: empty path", arg)
		}
		for _, part := range parts[1:] {
			k, v, _ := strings.Cut(part, "=")
			switch strings.TrimSpace(k) {
			case "type":
				file.MimeType = strings.TrimSpace(v)
			case "filename":
				file.PostName = strings.TrimSpace(v)
			default:
				return nil, fmt.Errorf("invalid file %q: unknown option %q", arg, k)
			}
		}
		files[name] = file
	}
	return files, nil
}
