package postmark

import (
	"encoding"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	spec "github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/starius/postmark/internal/shared"
)

const (
	serverTokenScheme  = "ServerToken"
	accountTokenScheme = "AccountToken"
)

// GenerateOpenApiSpec describes route tables as OpenAPI 3 document.
func GenerateOpenApiSpec(routeTables ...[]Route) (*spec.T, error) {
	swag := &spec.T{
		OpenAPI: "3.0.0",
		Info: &spec.Info{
			Title:   "Postmark API",
			Version: "1.0.0",
		},
		Servers: spec.Servers{
			{URL: DefaultBaseURL},
		},
		Paths: spec.Paths{},
		Components: &spec.Components{
			Schemas: spec.Schemas{},
			SecuritySchemes: spec.SecuritySchemes{
				serverTokenScheme: &spec.SecuritySchemeRef{
					Value: &spec.SecurityScheme{Type: "apiKey", In: "header", Name: ServerTokenHeader},
				},
				accountTokenScheme: &spec.SecuritySchemeRef{
					Value: &spec.SecurityScheme{Type: "apiKey", In: "header", Name: AccountTokenHeader},
				},
			},
		},
	}

	errorSchema, err := openapi3gen.NewSchemaRefForValue(&shared.ErrorMessage{}, swag.Components.Schemas, schemaOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema of error message: %w", err)
	}

	for _, routes := range routeTables {
		for _, route := range routes {
			op, err := newOperation(route, swag.Components.Schemas)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", route.Method, route.Path, err)
			}
			op.AddResponse(0, spec.NewResponse().WithDescription("Postmark error").WithJSONSchemaRef(errorSchema))

			path := openApiPath(route.Path)
			item := swag.Paths[path]
			if item == nil {
				item = &spec.PathItem{}
				swag.Paths[path] = item
			}
			item.SetOperation(route.Method, op)
		}
	}

	return swag, nil
}

func newOperation(route Route, schemas spec.Schemas) (*spec.Operation, error) {
	handlerType := reflect.TypeOf(handlerFunc(route.Handler))
	requestType := handlerType.In(1).Elem()
	responseType := handlerType.Out(0).Elem()

	op := spec.NewOperation()
	op.OperationID = strings.TrimSuffix(requestType.Name(), "Request")
	if m, ok := route.Handler.(*interfaceMethod); ok {
		_, pkgName, _, method := m.FuncInfo()
		op.OperationID = method
		op.Tags = append(op.Tags, pkgName)
	}

	scheme := serverTokenScheme
	if route.Token == AccountAuth {
		scheme = accountTokenScheme
	}
	op.Security = spec.NewSecurityRequirements().With(spec.NewSecurityRequirement().Authenticate(scheme))

	for i := 0; i < requestType.NumField(); i++ {
		field := requestType.Field(i)
		if key := field.Tag.Get("url"); key != "" {
			param := spec.NewPathParameter(key).WithSchema(paramSchema(field.Type))
			op.Parameters = append(op.Parameters, &spec.ParameterRef{Value: param})
		} else if key, _ := tagName(field.Tag.Get("query")); key != "" {
			param := spec.NewQueryParameter(key).WithSchema(paramSchema(field.Type))
			op.Parameters = append(op.Parameters, &spec.ParameterRef{Value: param})
		}
	}

	if methodHasBody(route.Method) && hasBody(requestType) {
		requestSchema, err := openapi3gen.NewSchemaRefForValue(bodyValue(requestType), schemas, schemaOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema of %s: %w", requestType, err)
		}
		op.RequestBody = &spec.RequestBodyRef{
			Value: spec.NewRequestBody().WithRequired(true).WithJSONSchemaRef(requestSchema),
		}
	}

	responseSchema, err := openapi3gen.NewSchemaRefForValue(bodyValue(responseType), schemas, schemaOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema of %s: %w", responseType, err)
	}
	op.AddResponse(http.StatusOK, spec.NewResponse().WithDescription("OK").WithJSONSchemaRef(responseSchema))

	return op, nil
}

var (
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	timeType          = reflect.TypeOf(time.Time{})
)

var schemaOptions = []openapi3gen.Option{
	openapi3gen.SchemaCustomizer(textSchema),
}

// textSchema describes types encoded as JSON strings by MarshalText
// (UUIDs, dates, identifiers) as strings.
func textSchema(name string, t reflect.Type, tag reflect.StructTag, schema *spec.Schema) error {
	if t == timeType || t.Kind() == reflect.String || !t.Implements(textMarshalerType) {
		return nil
	}
	*schema = *spec.NewStringSchema()
	if t.PkgPath() == "github.com/google/uuid" {
		schema.Format = "uuid"
	}
	return nil
}

// bodyValue returns a value of the type sent in JSON body.
func bodyValue(structType reflect.Type) interface{} {
	value := reflect.New(structType).Elem()
	if body, has := bodyField(value); has {
		return body.Interface()
	}
	return value.Addr().Interface()
}

func paramSchema(t reflect.Type) *spec.Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return spec.NewBoolSchema()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return spec.NewIntegerSchema()
	}
	return spec.NewStringSchema()
}

// openApiPath converts "/servers/:serverid" to "/servers/{serverid}".
func openApiPath(mask string) string {
	parts := strings.Split(mask, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "{" + strings.TrimPrefix(part, ":") + "}"
		}
	}
	return strings.Join(parts, "/")
}
