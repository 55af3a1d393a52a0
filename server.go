package postmark

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/rs/zerolog"
	pmerrors "github.com/starius/postmark/errors"
)

type Router interface {
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
}

// BindRoutes adds handlers of routes to http.ServeMux. It serves the same
// wire format as Postmark does, so an implementation of an area Service
// becomes a fake Postmark API for tests and local development.
func BindRoutes(mux Router, routes []Route, opts ...Option) {
	config := NewDefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	logger := config.logger

	path2routes := make(map[string][]Route)
	for _, route := range routes {
		path := cutUrlParams(route.Path)
		path2routes[path] = append(path2routes[path], route)
	}

	for path, routes := range path2routes {
		method2routes := make(map[string][]Route, len(routes))
		for _, route := range routes {
			method2routes[route.Method] = append(method2routes[route.Method], route)
		}
		method2handler := make(map[string]http.HandlerFunc, len(routes))
		for method, routes := range method2routes {
			method2handler[method] = newHTTPMethodHandler(routes, logger)
		}

		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			handler, has := method2handler[r.Method]
			if !has {
				if err := jsonError(w, http.StatusMethodNotAllowed, 0, fmt.Sprintf("unsupported method: %v", r.Method)); err != nil {
					logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to send MethodNotAllowed error")
				}
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, config.maxBody)
			handler(w, r)
		})
	}
}

func newHTTPMethodHandler(routes []Route, logger zerolog.Logger) http.HandlerFunc {
	if len(routes) == 1 && len(findUrlKeys(routes[0].Path)) == 0 {
		// Single handler without URL parameters.
		return newHTTPHandler(routes[0], logger)
	}
	paths := make([]string, 0, len(routes))
	handlers := make([]http.HandlerFunc, 0, len(routes))
	for _, route := range routes {
		paths = append(paths, route.Path)
		handlers = append(handlers, newHTTPHandler(route, logger))
	}
	c := newPathClassifier(paths)

	return func(w http.ResponseWriter, r *http.Request) {
		index, param2value := c.Classify(r.URL.EscapedPath())
		if index == -1 {
			if err := jsonError(w, http.StatusNotFound, 0, "failed to find route by path"); err != nil {
				logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to send NotFound error")
			}
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), pathParamsKey{}, param2value))
		handlers[index](w, r)
	}
}

func newHTTPHandler(route Route, logger zerolog.Logger) http.HandlerFunc {
	h := handlerFunc(route.Handler)
	t := route.Transport
	if t == nil {
		t = DefaultTransport
	}

	handlerValue := reflect.ValueOf(h)
	handlerType := handlerValue.Type()
	validateHandler(handlerType, route.Path)

	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With().Str("method", r.Method).Str("path", r.URL.Path).Logger()

		ctx := r.Context()
		req := reflect.New(handlerType.In(1).Elem()).Interface()
		ctx, err := t.DecodeRequest(ctx, r, req)
		if err != nil {
			log.Info().Err(err).Msg("failed to parse request")
			err = t.EncodeError(ctx, w, pmerrors.Unprocessable(pmerrors.InvalidJSON, "failed to parse request: %v", err))
			if err != nil {
				log.Error().Err(err).Msg("failed to send parsing error")
			}
			return
		}

		results := handlerValue.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(req)})
		resp := results[0].Interface()
		errReflect := results[1].Interface()

		if errReflect != nil {
			log.Info().Err(errReflect.(error)).Msg("handler failed")
			if err := t.EncodeError(ctx, w, errReflect.(error)); err != nil {
				log.Error().Err(err).Msg("failed to send handler error")
			}
			return
		}

		if err := t.EncodeResponse(ctx, w, resp); err != nil {
			log.Error().Err(err).Msg("failed to write response")
		}
	}
}
