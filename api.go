package postmark

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"reflect"
	"strings"
)

// DefaultBaseURL is the address of the production Postmark API.
const DefaultBaseURL = "https://api.postmarkapp.com"

// Route describes one endpoint of the Postmark API.
type Route struct {
	// HTTP method.
	Method string

	// HTTP path template. Segments starting with ":" are replaced with
	// values of request fields tagged `url:"name"`.
	Path string

	// Handler is a function with the following signature:
	// func(ctx, *Request) (*Response, error)
	// Request and Response are custom structures, unique to this route.
	Handler interface{}

	// The transport used in this route.
	Transport Transport

	// Token selects which API token the client sends with the request.
	Token TokenKind
}

// TokenKind is the kind of API token an endpoint is authenticated with.
type TokenKind int

const (
	// ServerAuth endpoints act on a single server (email, message streams).
	ServerAuth TokenKind = iota

	// AccountAuth endpoints manage the account (servers, domains).
	AccountAuth
)

const (
	ServerTokenHeader  = "X-Postmark-Server-Token"
	AccountTokenHeader = "X-Postmark-Account-Token"
)

// Header returns the name of HTTP header carrying the token.
func (k TokenKind) Header() string {
	if k == AccountAuth {
		return AccountTokenHeader
	}
	return ServerTokenHeader
}

func (k TokenKind) String() string {
	if k == AccountAuth {
		return "account"
	}
	return "server"
}

// Transport converts back and forth between HTTP and Request, Response types.
type Transport interface {
	// Called by server.
	DecodeRequest(ctx context.Context, r *http.Request, req interface{}) (context.Context, error)
	EncodeResponse(ctx context.Context, w http.ResponseWriter, res interface{}) error
	EncodeError(ctx context.Context, w http.ResponseWriter, err error) error

	// Called by client.
	EncodeRequest(ctx context.Context, method, url string, req interface{}) (*http.Request, error)
	DecodeResponse(ctx context.Context, httpRes *http.Response, res interface{}) error
	DecodeError(ctx context.Context, httpRes *http.Response) error
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// validateHandler panics if handler is not of type func(ctx, *Request) (*Response, error)
// or if the request does not fill exactly the parameters of routePath.
func validateHandler(handlerType reflect.Type, routePath string) {
	if handlerType.Kind() != reflect.Func {
		panic(fmt.Sprintf("handler is %s, want func", handlerType.Kind()))
	}

	if handlerType.NumIn() != 2 {
		panic(fmt.Sprintf("handler must have 2 arguments, got %d", handlerType.NumIn()))
	}
	if handlerType.In(0) != contextType {
		panic(fmt.Sprintf("handler's first argument must be context.Context, got %s", handlerType.In(0)))
	}
	if handlerType.In(1).Kind() != reflect.Ptr || handlerType.In(1).Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("handler's second argument must be a pointer to a struct, got %s", handlerType.In(1)))
	}
	validateRequestResponse(handlerType.In(1).Elem(), true)
	validateUrlKeys(handlerType.In(1).Elem(), routePath)

	if handlerType.NumOut() != 2 {
		panic(fmt.Sprintf("handler must have 2 results, got %d", handlerType.NumOut()))
	}
	if handlerType.Out(0).Kind() != reflect.Ptr || handlerType.Out(0).Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("handler's first result must be a pointer to a struct, got %s", handlerType.Out(0)))
	}
	validateRequestResponse(handlerType.Out(0).Elem(), false)
	if handlerType.Out(1) != errorType {
		panic(fmt.Sprintf("handler's second result must be error, got %s", handlerType.Out(1)))
	}
}

func validateRequestResponse(structType reflect.Type, request bool) {
	bodyFields := 0
	useAsBody := 0
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		jsonTag := field.Tag.Get("json")
		hasJson := jsonTag != "" && jsonTag != "-"
		hasQuery := field.Tag.Get("query") != ""
		hasUrl := field.Tag.Get("url") != ""
		isBody := field.Tag.Get("use_as_body") == "true"
		sum := 0
		for _, v := range []bool{hasJson, hasQuery, hasUrl, isBody} {
			if v {
				sum++
			}
		}
		if sum > 1 {
			panic(fmt.Sprintf("field %s of struct %s: hasJson=%v, hasQuery=%v, hasUrl=%v, useAsBody=%v, want at most one to be true", field.Name, structType.Name(), hasJson, hasQuery, hasUrl, isBody))
		}
		if (hasQuery || hasUrl || isBody) && jsonTag != "-" {
			panic(fmt.Sprintf("field %s of struct %s is not part of JSON object and must be tagged `json:\"-\"`", field.Name, structType.Name()))
		}
		if (hasQuery || hasUrl) && !request {
			panic(fmt.Sprintf("field %s of struct %s: query and url parameters can only be used in requests", field.Name, structType.Name()))
		}
		if isBody {
			useAsBody++
		} else if jsonTag != "-" && field.IsExported() {
			bodyFields++
		}
	}
	if useAsBody > 1 {
		panic(fmt.Sprintf("struct %s has %d fields with use_as_body, want at most 1", structType.Name(), useAsBody))
	}
	if useAsBody == 1 && bodyFields != 0 {
		panic(fmt.Sprintf("struct %s has use_as_body field and %d JSON fields", structType.Name(), bodyFields))
	}
}

func validateUrlKeys(structType reflect.Type, routePath string) {
	want := findUrlKeys(routePath)
	got := make(map[string]bool, len(want))
	for i := 0; i < structType.NumField(); i++ {
		if key := structType.Field(i).Tag.Get("url"); key != "" {
			got[key] = true
		}
	}
	if len(got) != len(want) {
		panic(fmt.Sprintf("struct %s has %d url fields, path %s has %d parameters", structType.Name(), len(got), routePath, len(want)))
	}
	for _, key := range want {
		if !got[key] {
			panic(fmt.Sprintf("path %s has parameter %s missing in struct %s", routePath, key, structType.Name()))
		}
	}
}

// tagName splits struct tag value into the name and the omitempty flag.
func tagName(tag string) (name string, omitempty bool) {
	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty
}

// DefaultTransport is used by routes with nil Transport.
var DefaultTransport = &JsonTransport{}

type interfaceMethod struct {
	serviceValue reflect.Value
	methodName   string
}

func (m *interfaceMethod) Func() interface{} {
	if m.serviceValue.IsNil() {
		// Service is nil interface.
		serviceType := m.serviceValue.Type()
		method, has := serviceType.MethodByName(m.methodName)
		if !has {
			panic(fmt.Sprintf("Service type %s has no method %s", serviceType.Name(), m.methodName))
		}
		return reflect.New(method.Type).Elem().Interface()
	}
	return m.serviceValue.MethodByName(m.methodName).Interface()
}

func (m *interfaceMethod) FuncInfo() (pkgFull, pkgName, structName, method string) {
	serviceType := m.serviceValue.Type()
	pkgFull = serviceType.PkgPath()
	pkgName = path.Base(pkgFull)
	structName = serviceType.Name()
	method = m.methodName
	return
}

// Method returns the handler of method methodName of the service stored
// in *servicePtr. The service can be a nil interface: this is how clients
// build route tables without a real implementation.
func Method(servicePtr interface{}, methodName string) interface{} {
	m := interfaceMethod{
		serviceValue: reflect.ValueOf(servicePtr).Elem(),
		methodName:   methodName,
	}
	_ = m.Func() // To panic asap.
	return &m
}

func handlerFunc(handler interface{}) interface{} {
	if m, ok := handler.(*interfaceMethod); ok {
		return m.Func()
	}
	return handler
}
