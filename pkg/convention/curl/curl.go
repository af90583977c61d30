// Package curl exercises a mounted entry over HTTP the way a browser client would.
package curl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/linecard/filelink/pkg/convention/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Service struct {
	Http HttpClient
}

type Convention struct {
	Config  config.Config
	Service Service
}

// Result is one smoke request and whether the entry answered it as expected.
type Result struct {
	Name   string `json:"name" yaml:"name"`
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
	Want   int    `json:"want" yaml:"want"`
	Got    int    `json:"got" yaml:"got"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func (r Result) Pass() bool {
	return r.Got == r.Want && r.Detail == ""
}

func FromClient(c config.Config, client HttpClient) Convention {
	return Convention{
		Config: c,
		Service: Service{
			Http: client,
		},
	}
}

func (c Convention) do(ctx context.Context, method, url string, headers map[string]string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}

	for key, value := range headers {
		request.Header.Set(key, value)
	}

	return c.Service.Http.Do(request)
}

// Smoke asks the entry at baseUrl for a url key, checks it answers a cross origin preflight,
// and checks the link listing is served exactly when the stack has an index. It writes nothing.
func (c Convention) Smoke(ctx context.Context, baseUrl string) ([]Result, error) {
	ctx, span := otel.Tracer("").Start(ctx, "curl.Smoke")
	defer span.End()

	baseUrl = strings.TrimSuffix(baseUrl, "/")

	newUrl := Result{Name: "new url key", Method: http.MethodGet, Path: "/api/createNewUrl", Want: http.StatusOK}
	response, err := c.do(ctx, newUrl.Method, baseUrl+newUrl.Path, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var key struct {
		UrlKey string `json:"url_key"`
	}

	newUrl.Got = response.StatusCode
	body, _ := io.ReadAll(response.Body)
	response.Body.Close()
	if err := json.Unmarshal(body, &key); err != nil || key.UrlKey == "" {
		newUrl.Detail = fmt.Sprintf("no url_key in %q", string(body))
	}

	preflight := Result{Name: "cors preflight", Method: http.MethodOptions, Path: "/api/share/" + key.UrlKey, Want: http.StatusNoContent}
	response, err = c.do(ctx, preflight.Method, baseUrl+preflight.Path, map[string]string{
		"Origin":                        "https://filelink.invalid",
		"Access-Control-Request-Method": http.MethodPost,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	response.Body.Close()

	preflight.Got = response.StatusCode
	if response.Header.Get("Access-Control-Allow-Origin") == "" {
		preflight.Detail = "no Access-Control-Allow-Origin header"
	}

	links := Result{Name: "link listing", Method: http.MethodGet, Path: "/api/links/" + key.UrlKey, Want: http.StatusNotImplemented}
	if c.Config.Indexed() {
		links.Want = http.StatusOK
	}

	response, err = c.do(ctx, links.Method, baseUrl+links.Path, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	response.Body.Close()
	links.Got = response.StatusCode

	results := []Result{newUrl, preflight, links}
	for _, result := range results {
		log.Debug().Str("check", result.Name).Int("want", result.Want).Int("got", result.Got).Msg("smoke")
	}

	return results, nil
}
