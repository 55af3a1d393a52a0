package postmark

import (
	"fmt"
	"net/url"
	"strings"
)

// pathParamsKey is the context key of path parameters matched by the server.
type pathParamsKey struct{}

// segment is one part of a path template: a literal or a named parameter.
type segment struct {
	text  string
	param bool
}

type classifier struct {
	masks [][]segment
}

func splitUrl(url string) []string {
	return strings.FieldsFunc(url, func(r rune) bool {
		return r == '/'
	})
}

func parseMask(mask string) []segment {
	parts := splitUrl(mask)
	segments := make([]segment, len(parts))
	for i, part := range parts {
		name, isParam := strings.CutPrefix(part, ":")
		segments[i] = segment{text: name, param: isParam}
	}
	return segments
}

func newPathClassifier(masks []string) *classifier {
	c := &classifier{masks: make([][]segment, 0, len(masks))}
	for _, mask := range masks {
		c.masks = append(c.masks, parseMask(mask))
	}
	return c
}

// matchSegments compares escaped path parts with the mask and returns
// unescaped values of the parameters.
func matchSegments(pathParts []string, mask []segment) (map[string]string, bool) {
	if len(pathParts) != len(mask) {
		return nil, false
	}
	param2value := make(map[string]string)
	for i, seg := range mask {
		if !seg.param {
			if pathParts[i] != seg.text {
				return nil, false
			}
			continue
		}
		value, err := url.PathUnescape(pathParts[i])
		if err != nil {
			return nil, false
		}
		param2value[seg.text] = value
	}
	return param2value, true
}

// Classify returns index of matching mask (-1 if not found) and parameters map.
// The path must be in escaped form (URL.EscapedPath).
func (c *classifier) Classify(path string) (index int, param2value map[string]string) {
	pathParts := splitUrl(path)
	for i, mask := range c.masks {
		if param2value, ok := matchSegments(pathParts, mask); ok {
			return i, param2value
		}
	}
	return -1, nil
}

func findUrlKeys(mask string) []string {
	parts := strings.Split(mask, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, ":") {
			result = append(result, strings.TrimPrefix(part, ":"))
		}
	}
	return result
}

func cutUrlParams(mask string) string {
	before, _, _ := strings.Cut(mask, "/:")
	if before == mask {
		return mask
	}
	if !strings.HasSuffix(before, "/") {
		before += "/"
	}
	return before
}

// buildUrl substitutes parameters of the mask. Values are path-escaped,
// so "/" inside a value never creates a new segment.
func buildUrl(mask string, param2value map[string]string) (string, error) {
	urlParts := strings.Split(mask, "/")
	replaced := make(map[string]struct{}, len(param2value))
	for i, part := range urlParts {
		if !strings.HasPrefix(part, ":") {
			continue
		}
		part = strings.TrimPrefix(part, ":")
		value, has := param2value[part]
		if !has {
			return "", fmt.Errorf("unknown parameter: %s", part)
		}
		if value == "" {
			return "", fmt.Errorf("parameter %s is empty", part)
		}
		urlParts[i] = url.PathEscape(value)
		replaced[part] = struct{}{}
	}
	if len(replaced) != len(param2value) {
		return "", fmt.Errorf("not all parameters were built into URL: want %d, got %d", len(param2value), len(replaced))
	}
	return strings.Join(urlParts, "/"), nil
}

// Endpoint renders the relative URL of the request: path parameters are
// taken from fields tagged `url`, query string from fields tagged `query`
// in the order of declaration. The request must be a pointer to the
// request struct of the route.
func (r Route) Endpoint(request interface{}) (string, error) {
	param2value, query, err := writeParams(request)
	if err != nil {
		return "", err
	}
	endpoint, err := buildUrl(r.Path, param2value)
	if err != nil {
		return "", err
	}
	if len(query) != 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint, nil
}
