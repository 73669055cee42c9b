// Package http provides small request and response helpers on top of
// net/http for JSON endpoints.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	// Bind a JSON body into a struct (numbers arrive as json.Number)
//	var payload struct {
//	    Args []any `json:"args"`
//	}
//	if err := req.Bind(&payload); err != nil { ... }
//
//	name := req.RouteParam("name")   // chi route parameter
//	args := req.QueryAll("arg")      // ?arg=a&arg=b
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(v)                   // 200 {"data": v}
//	res.NotFound("no such bean")     // 404 {"message": "..."}
//	res.ServerError()                // 500 {"message": "Server Error."}
package http
