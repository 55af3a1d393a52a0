package postmark

import (
	"bytes"
	"context"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	pmerrors "github.com/starius/postmark/errors"
	"github.com/starius/postmark/internal/shared"
)

// JsonTransport implements interface Transport for JSON encoding of
// requests and responses in the form used by Postmark.
//
// Request fields tagged with `url` and `query` become a part of URL, other
// fields form JSON body. A field tagged `use_as_body:"true"` is used as the
// whole body, which allows JSON arrays as bodies. Response fields tagged
// `required:"true"` must be present in the response JSON.
//
// To redefine some methods, set corresponding fields in the struct:
//
//	&JsonTransport{ErrorDecoder: func ...
type JsonTransport struct {
	RequestDecoder  func(context.Context, *http.Request, interface{}) (context.Context, error)
	ResponseEncoder func(context.Context, http.ResponseWriter, interface{}) error
	ErrorEncoder    func(context.Context, http.ResponseWriter, error) error
	RequestEncoder  func(ctx context.Context, method, url string, req interface{}) (*http.Request, error)
	ResponseDecoder func(context.Context, *http.Response, interface{}) error
	ErrorDecoder    func(context.Context, *http.Response) error
}

const contentTypeJSON = "application/json"

func (h *JsonTransport) DecodeRequest(ctx context.Context, r *http.Request, req interface{}) (context.Context, error) {
	if h.RequestDecoder != nil {
		return h.RequestDecoder(ctx, r, req)
	}

	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return ctx, err
	}
	if len(bytes.TrimSpace(buf)) != 0 {
		if err := unmarshalBody(buf, req); err != nil {
			return ctx, err
		}
	}
	param2value, _ := ctx.Value(pathParamsKey{}).(map[string]string)
	if err := parseParams(req, param2value, r.URL.Query()); err != nil {
		return ctx, err
	}

	return ctx, nil
}

func (h *JsonTransport) EncodeResponse(ctx context.Context, w http.ResponseWriter, res interface{}) error {
	if h.ResponseEncoder != nil {
		return h.ResponseEncoder(ctx, w, res)
	}

	var forJson interface{} = res
	if body, has := bodyField(reflect.ValueOf(res).Elem()); has {
		forJson = body.Interface()
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	return json.NewEncoder(w).Encode(forJson)
}

// HttpError is implemented by errors knowing their HTTP status.
type HttpError interface {
	HttpCode() int
}

// PostmarkError is implemented by errors carrying Postmark error code.
type PostmarkError interface {
	PostmarkCode() int
}

func errorToCode(err error) (status, code int) {
	var jsonErr *json.SyntaxError
	if errors.As(err, &jsonErr) {
		return http.StatusUnprocessableEntity, pmerrors.InvalidJSON
	}
	status = http.StatusInternalServerError
	var httpErr HttpError
	if errors.As(err, &httpErr) {
		status = httpErr.HttpCode()
	}
	var postmarkErr PostmarkError
	if errors.As(err, &postmarkErr) {
		code = postmarkErr.PostmarkCode()
	}
	return status, code
}

func (h *JsonTransport) EncodeError(ctx context.Context, w http.ResponseWriter, err error) error {
	if h.ErrorEncoder != nil {
		return h.ErrorEncoder(ctx, w, err)
	}

	status, code := errorToCode(err)
	return jsonError(w, status, code, err.Error())
}

func (h *JsonTransport) EncodeRequest(ctx context.Context, method, urlStr string, req interface{}) (*http.Request, error) {
	if h.RequestEncoder != nil {
		return h.RequestEncoder(ctx, method, urlStr, req)
	}

	request, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", contentTypeJSON)
	request.Header.Set("Content-Type", contentTypeJSON)

	if !methodHasBody(method) || !hasBody(reflect.TypeOf(req).Elem()) {
		return request, nil
	}

	requestJSON, err := marshalBody(req)
	if err != nil {
		return nil, err
	}
	body := bytes.NewReader(requestJSON)
	snapshot := *body
	request.ContentLength = int64(len(requestJSON))
	request.Body = io.NopCloser(body)
	request.GetBody = func() (io.ReadCloser, error) {
		r := snapshot
		return io.NopCloser(&r), nil
	}

	return request, nil
}

func (h *JsonTransport) DecodeResponse(ctx context.Context, res *http.Response, response interface{}) error {
	if h.ResponseDecoder != nil {
		return h.ResponseDecoder(ctx, res, response)
	}

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if err := checkRequired(buf, reflect.TypeOf(response).Elem()); err != nil {
		return err
	}
	return unmarshalBody(buf, response)
}

func (h *JsonTransport) DecodeError(ctx context.Context, res *http.Response) error {
	if h.ErrorDecoder != nil {
		return h.ErrorDecoder(ctx, res)
	}

	apiErr := &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
	}
	buf, err := io.ReadAll(res.Body)
	apiErr.Body = buf
	if err != nil {
		apiErr.Message = fmt.Sprintf("failed to read error message: %v", err)
		return apiErr
	}
	var msg shared.ErrorMessage
	if err := json.Unmarshal(buf, &msg); err == nil && (msg.ErrorCode != 0 || msg.Message != "") {
		apiErr.ErrorCode = msg.ErrorCode
		apiErr.Message = msg.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(buf))
	return apiErr
}

func jsonError(w http.ResponseWriter, status, code int, message string) error {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(shared.ErrorMessage{
		ErrorCode: code,
		Message:   message,
	})
}

func methodHasBody(method string) bool {
	return method != http.MethodGet && method != http.MethodHead && method != http.MethodDelete
}

// hasBody reports whether the struct has any field sent in JSON body.
func hasBody(structType reflect.Type) bool {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Tag.Get("use_as_body") == "true" {
			return true
		}
		if field.IsExported() && field.Tag.Get("json") != "-" {
			return true
		}
	}
	return false
}

func bodyField(objValue reflect.Value) (reflect.Value, bool) {
	objType := objValue.Type()
	for i := 0; i < objType.NumField(); i++ {
		if objType.Field(i).Tag.Get("use_as_body") == "true" {
			return objValue.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func marshalBody(objPtr interface{}) ([]byte, error) {
	if body, has := bodyField(reflect.ValueOf(objPtr).Elem()); has {
		return json.Marshal(body.Interface())
	}
	return json.Marshal(objPtr)
}

func unmarshalBody(buf []byte, objPtr interface{}) error {
	if body, has := bodyField(reflect.ValueOf(objPtr).Elem()); has {
		return json.Unmarshal(buf, body.Addr().Interface())
	}
	return json.Unmarshal(buf, objPtr)
}

var (
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// checkRequired returns an error if a JSON object in buf lacks a key of a
// field tagged `required:"true"` or has null there. Nested objects, items
// of slices and items of a use_as_body array are checked too. The error
// names the path of the object, e.g. `Servers[0]: required field "ID" is
// missing`.
func checkRequired(buf []byte, structType reflect.Type) error {
	if body, has := bodyFieldType(structType); has {
		return checkValue(buf, body.Type, "")
	}
	return checkValue(buf, structType, "")
}

func bodyFieldType(structType reflect.Type) (reflect.StructField, bool) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Tag.Get("use_as_body") == "true" {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

// needsCheck reports whether values of type t may contain required fields.
func needsCheck(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		ptr := reflect.PointerTo(t)
		return !ptr.Implements(jsonUnmarshalerType) && !ptr.Implements(textUnmarshalerType)
	case reflect.Slice:
		return needsCheck(t.Elem())
	}
	return false
}

func checkValue(buf []byte, t reflect.Type, path string) error {
	if !needsCheck(t) || string(bytes.TrimSpace(buf)) == "null" {
		return nil
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Slice {
		var items []json.RawMessage
		if err := json.Unmarshal(buf, &items); err != nil {
			return err
		}
		for i, item := range items {
			if err := checkValue(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(buf, &object); err != nil {
		return err
	}
	return checkObject(object, t, path)
}

func checkObject(object map[string]json.RawMessage, structType reflect.Type, path string) error {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		key, _ := tagName(field.Tag.Get("json"))
		if key == "-" {
			continue
		}
		if field.Anonymous && key == "" && field.Type.Kind() == reflect.Struct {
			if err := checkObject(object, field.Type, path); err != nil {
				return err
			}
			continue
		}
		if key == "" {
			key = field.Name
		}
		value, has := object[key]
		if field.Tag.Get("required") == "true" && (!has || string(value) == "null") {
			if path == "" {
				return fmt.Errorf("required field %q is missing", key)
			}
			return fmt.Errorf("%s: required field %q is missing", path, key)
		}
		if !has {
			continue
		}
		fieldPath := key
		if path != "" {
			fieldPath = path + "." + key
		}
		if err := checkValue(value, field.Type, fieldPath); err != nil {
			return err
		}
	}
	return nil
}
