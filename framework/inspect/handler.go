// Package inspect exposes a read-only HTTP view of a bean factory.
package inspect

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/km-arc/go-beans/framework/beans"
	"github.com/km-arc/go-beans/framework/definition"
	gohttp "github.com/km-arc/go-beans/framework/http"
	"github.com/km-arc/go-beans/framework/instantiate"
	"github.com/km-arc/go-beans/framework/routing"
)

// DefinitionLister lists the names a DefinitionSource knows about.
type DefinitionLister interface {
	Names() []string
}

// Handler serves bean and post-processor listings for one factory.
type Handler struct {
	// Debug exposes the cause of a failed resolution in 500 responses.
	Debug bool

	factory *beans.Factory
	defs    DefinitionLister
	logger  *zap.Logger
}

// NewHandler creates a Handler. defs may be nil when the definition source
// cannot enumerate its names.
func NewHandler(factory *beans.Factory, defs DefinitionLister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{factory: factory, defs: defs, logger: logger}
}

// Routes mounts the inspection endpoints on r.
//
//	GET  /beans               → cached singletons and known definitions
//	GET  /beans/{name}        → resolve, args from repeated ?arg=
//	POST /beans/{name}        → resolve, args from {"args": [...]}
//	GET  /post-processors     → registered hooks in order
//
// A query arg that parses as an integer or a float is passed as int or
// float64; anything else is passed as a string.
func (h *Handler) Routes(r *routing.Router) {
	r.Prefix("/beans", func(b *routing.Router) {
		b.Get("/", h.index)
		b.Get("/{name}", h.show)
		b.Post("/{name}", h.create)
	})
	r.Get("/post-processors", h.postProcessors)
}

// ── Views ─────────────────────────────────────────────────────────────────────

type beanView struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Cached bool   `json:"cached"`
}

type indexView struct {
	Container   string   `json:"container"`
	Singletons  []string `json:"singletons"`
	Definitions []string `json:"definitions"`
}

// ── Handlers ──────────────────────────────────────────────────────────────────

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	view := indexView{
		Container:   h.factory.ID(),
		Singletons:  h.factory.SingletonNames(),
		Definitions: []string{},
	}
	if h.defs != nil {
		view.Definitions = h.defs.Names()
	}
	gohttp.NewResponse(w).Success(view)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	var args []any
	for _, a := range req.QueryAll("arg") {
		args = append(args, queryArg(a))
	}
	h.resolve(w, req.RouteParam("name"), args)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	var body struct {
		Args []any `json:"args"`
	}
	if err := req.Bind(&body); err != nil && !errors.Is(err, gohttp.ErrEmptyBody) {
		gohttp.NewResponse(w).BadRequest(err.Error())
		return
	}
	h.resolve(w, req.RouteParam("name"), definition.NormalizeArgs(body.Args))
}

func (h *Handler) resolve(w http.ResponseWriter, name string, args []any) {
	res := gohttp.NewResponse(w)
	inst, err := h.factory.GetBean(name, args...)
	switch {
	case err == nil:
		res.Success(beanView{Name: name, Type: fmt.Sprintf("%T", inst), Cached: h.factory.ContainsSingleton(name)})
	case errors.Is(err, beans.ErrDefinitionNotFound):
		res.NotFound(err.Error())
	case errors.Is(err, beans.ErrEmptyName), errors.Is(err, instantiate.ErrArguments):
		res.BadRequest(err.Error())
	default:
		h.logger.Error("inspect: resolve failed", zap.String("bean", name), zap.Error(err))
		if h.Debug {
			res.ServerError(err.Error())
			return
		}
		res.ServerError()
	}
}

func queryArg(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func (h *Handler) postProcessors(w http.ResponseWriter, r *http.Request) {
	hooks := h.factory.PostProcessors()
	out := make([]string, 0, len(hooks))
	for _, hook := range hooks {
		out = append(out, fmt.Sprintf("%T", hook))
	}
	gohttp.NewResponse(w).Success(out)
}
