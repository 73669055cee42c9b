package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gohttp "github.com/km-arc/go-beans/framework/http"
	"github.com/km-arc/go-beans/framework/routing"
)

func TestRequest_BindJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"args": ["a", 2]}`))
	r.Header.Set("Content-Type", "application/json")

	var body struct {
		Args []any `json:"args"`
	}
	if err := gohttp.NewRequest(r).Bind(&body); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(body.Args) != 2 || body.Args[0] != "a" {
		t.Fatalf("args: got %#v", body.Args)
	}
	if n, ok := body.Args[1].(json.Number); !ok || n.String() != "2" {
		t.Errorf("args[1]: got %#v want json.Number(2)", body.Args[1])
	}
}

func TestRequest_BindErrors(t *testing.T) {
	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := gohttp.NewRequest(empty).Bind(&struct{}{}); !errors.Is(err, gohttp.ErrEmptyBody) {
		t.Errorf("empty body: got %v want ErrEmptyBody", err)
	}

	form := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=b"))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := gohttp.NewRequest(form).Bind(&struct{}{}); err == nil {
		t.Error("form body: expected error")
	}
}

func TestRequest_QueryAll(t *testing.T) {
	r := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/?arg=a&arg=b&mode=x", nil))

	if got := r.QueryAll("arg"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("QueryAll: got %v", got)
	}
}

func TestRequest_RouteParam(t *testing.T) {
	r := routing.New(nil)
	var got string
	r.Get("/beans/{name}", func(w http.ResponseWriter, req *http.Request) {
		got = gohttp.NewRequest(req).RouteParam("name")
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/beans/mailer", nil))

	if got != "mailer" {
		t.Errorf("RouteParam: got %q want mailer", got)
	}
}
